package rset

import "github.com/coffeemancy/ctjot-web-generator/errs"

// 枚舉的字串值即為 wire 格式（與瀏覽器端 options.js 交換的字串）。
// 沿用 "Type.NAME" 形式，preset 檔與前端 JSON 都以這個形式表示枚舉。

// GameMode 遊戲模式
type GameMode string

const (
	ModeStandard      GameMode = "GameMode.STANDARD"
	ModeLostWorlds    GameMode = "GameMode.LOST_WORLDS"
	ModeIceAge        GameMode = "GameMode.ICE_AGE"
	ModeLegacyOfCyrus GameMode = "GameMode.LEGACY_OF_CYRUS"
	ModeVanillaRando  GameMode = "GameMode.VANILLA_RANDO"
)

func AllGameModes() []GameMode {
	return []GameMode{ModeStandard, ModeLostWorlds, ModeIceAge, ModeLegacyOfCyrus, ModeVanillaRando}
}

func (m GameMode) Valid() error {
	for _, k := range AllGameModes() {
		if m == k {
			return nil
		}
	}
	return errs.Warnf("unknown game mode: %s", string(m))
}

// Difficulty 物品/敵人難度
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Difficulty.EASY"
	DifficultyNormal Difficulty = "Difficulty.NORMAL"
	DifficultyHard   Difficulty = "Difficulty.HARD"
)

func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyHard}
}

// EnemyDifficulties 敵人難度只開放 NORMAL/HARD（EASY 僅適用於物品）
func EnemyDifficulties() []Difficulty {
	return []Difficulty{DifficultyNormal, DifficultyHard}
}

func (d Difficulty) Valid() error {
	for _, k := range AllDifficulties() {
		if d == k {
			return nil
		}
	}
	return errs.Warnf("unknown difficulty: %s", string(d))
}

// ShopPrices 商店價格模式
type ShopPrices string

const (
	ShopNormal       ShopPrices = "ShopPrices.NORMAL"
	ShopMostlyRandom ShopPrices = "ShopPrices.MOSTLY_RANDOM"
	ShopFullyRandom  ShopPrices = "ShopPrices.FULLY_RANDOM"
	ShopFree         ShopPrices = "ShopPrices.FREE"
)

func AllShopPrices() []ShopPrices {
	return []ShopPrices{ShopNormal, ShopMostlyRandom, ShopFullyRandom, ShopFree}
}

func (s ShopPrices) Valid() error {
	for _, k := range AllShopPrices() {
		if s == k {
			return nil
		}
	}
	return errs.Warnf("unknown shop prices: %s", string(s))
}

// TechOrder 技能學習順序
type TechOrder string

const (
	TechOrderNormal         TechOrder = "TechOrder.NORMAL"
	TechOrderBalancedRandom TechOrder = "TechOrder.BALANCED_RANDOM"
	TechOrderFullRandom     TechOrder = "TechOrder.FULL_RANDOM"
)

func AllTechOrders() []TechOrder {
	return []TechOrder{TechOrderNormal, TechOrderBalancedRandom, TechOrderFullRandom}
}

func (t TechOrder) Valid() error {
	for _, k := range AllTechOrders() {
		if t == k {
			return nil
		}
	}
	return errs.Warnf("unknown tech order: %s", string(t))
}
