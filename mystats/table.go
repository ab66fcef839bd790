package mystats

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// StdOut 把報告印成終端表格（含抽樣速度）。
func (r *SampleReport) StdOut(ut time.Duration) {
	formatDuration(ut, r.Samples)

	fmt.Println(fmtTable("Game Modes", enumKeys(r.GameModes), enumMsg(r.GameModes)))
	fmt.Println(fmtTable("Item Difficulty", enumKeys(r.ItemDifficulties), enumMsg(r.ItemDifficulties)))
	fmt.Println(fmtTable("Enemy Difficulty", enumKeys(r.EnemyDifficulties), enumMsg(r.EnemyDifficulties)))
	fmt.Println(fmtTable("Tech Order", enumKeys(r.TechOrders), enumMsg(r.TechOrders)))
	fmt.Println(fmtTable("Shop Prices", enumKeys(r.ShopPrices), enumMsg(r.ShopPrices)))

	if len(r.Flags) > 0 {
		keys := make([]string, 0, len(r.Flags))
		msg := make(map[string]string, len(r.Flags))
		for _, f := range r.Flags {
			keys = append(keys, f.Name)
			// 目標機率 vs 實抽比例，肉眼一行看出偏差
			msg[f.Name] = fmt.Sprintf("want %s | got %s", fmtPct01(f.Prob), fmtHatCIpct01(f.Rate.Hat, f.Rate.CI))
		}
		fmt.Println(fmtTable("Flags", keys, msg))
	}
}

func enumKeys(sts []EnumStat) []string {
	keys := make([]string, 0, len(sts))
	for _, s := range sts {
		keys = append(keys, s.Name)
	}
	return keys
}

func enumMsg(sts []EnumStat) map[string]string {
	msg := make(map[string]string, len(sts))
	for _, s := range sts {
		msg[s.Name] = fmtHatCIpct01(s.Rate.Hat, s.Rate.CI)
	}
	return msg
}

func fmtPct01(x float64) string {
	return fmt.Sprintf("%.2f%%", x*100)
}

func fmtHatCIpct01(hat float64, ci CI) string {
	return fmt.Sprintf("%s [%s, %s]", fmtPct01(hat), fmtPct01(ci.Lo), fmtPct01(ci.Hi))
}

func formatDuration(d time.Duration, samples int) {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	sps := int(float64(samples) / sec)
	if sec < 60.0 {
		p.Printf("used: %.2f seconds\nsps : %d samples/sec\n", sec, sps)
		return
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		p.Printf("used: %dm %ds\nsps : %d samples/sec\n", m, s, sps)
		return
	}
	p.Printf("used: %dh:%dm:%ds\nsps : %d samples/sec\n", h, m, s, sps)
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	fmtStr := top
	fmtStr += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	fmtStr += divider
	for _, k := range keys {
		fmtStr += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	fmtStr += divider

	return fmtStr
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
