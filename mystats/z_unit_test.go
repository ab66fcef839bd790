package mystats

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/coffeemancy/ctjot-web-generator/rset"
)

func testMystery() *rset.MysterySettings {
	return &rset.MysterySettings{
		GameModeFreqs: map[rset.GameMode]int{
			rset.ModeStandard:   3,
			rset.ModeLostWorlds: 1,
		},
		FlagProb: map[string]float64{
			"GameFlags.FIX_GLITCH": 1.0,
			"GameFlags.BOSS_RANDO": 0.0,
			"GameFlags.CHAR_RANDO": 0.5,
		},
	}
}

func TestSampleDeterministic(t *testing.T) {
	a, err := Sample(testMystery(), nil, 200, 7, nil)
	if err != nil {
		t.Fatalf("sample err: %v", err)
	}
	b, err := Sample(testMystery(), nil, 200, 7, nil)
	if err != nil {
		t.Fatalf("sample err: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed must reproduce the report (-a +b):\n%s", diff)
	}
}

func TestSampleExactProbabilities(t *testing.T) {
	const n = 500
	rep, err := Sample(testMystery(), nil, n, 1, nil)
	if err != nil {
		t.Fatalf("sample err: %v", err)
	}

	byName := map[string]FlagStat{}
	for _, f := range rep.Flags {
		byName[f.Name] = f
	}

	// 機率 1 / 0 沒有抽樣誤差，必須精確命中
	if f := byName["GameFlags.FIX_GLITCH"]; f.Count != n || f.Rate.Hat != 1 {
		t.Errorf("p=1 flag: %+v", f)
	}
	if f := byName["GameFlags.BOSS_RANDO"]; f.Count != 0 || f.Rate.Hat != 0 {
		t.Errorf("p=0 flag: %+v", f)
	}
	// p=0.5 抽 500 次落在這個範圍外的機率可以忽略
	if f := byName["GameFlags.CHAR_RANDO"]; f.Count < 150 || f.Count > 350 {
		t.Errorf("p=0.5 flag count = %d", f.Count)
	}
}

func TestSampleFrequenciesSum(t *testing.T) {
	const n = 300
	rep, err := Sample(testMystery(), nil, n, 3, nil)
	if err != nil {
		t.Fatalf("sample err: %v", err)
	}

	total := 0
	for _, e := range rep.GameModes {
		total += e.Count
		if e.Rate.CI.Lo > e.Rate.Hat || e.Rate.Hat > e.Rate.CI.Hi {
			t.Errorf("CI does not bracket the estimate: %+v", e)
		}
		if e.Rate.CI.Lo < 0 || e.Rate.CI.Hi > 1 {
			t.Errorf("CI out of [0,1]: %+v", e)
		}
	}
	if total != n {
		t.Errorf("mode counts sum = %d, want %d", total, n)
	}

	// 權重表沒列的模式不該出現
	for _, e := range rep.GameModes {
		if e.Name != string(rset.ModeStandard) && e.Name != string(rset.ModeLostWorlds) {
			t.Errorf("unexpected mode drawn: %q", e.Name)
		}
	}
}

func TestSampleCallsProgress(t *testing.T) {
	calls := 0
	if _, err := Sample(testMystery(), nil, 50, 1, func() { calls++ }); err != nil {
		t.Fatalf("sample err: %v", err)
	}
	if calls != 50 {
		t.Errorf("progress calls = %d", calls)
	}
}

func TestSampleRejectsBadInput(t *testing.T) {
	if _, err := Sample(nil, nil, 10, 1, nil); err == nil {
		t.Error("nil mystery settings must be rejected")
	}
	if _, err := Sample(testMystery(), nil, 0, 1, nil); err == nil {
		t.Error("zero sample count must be rejected")
	}
}

func TestYAMLRender(t *testing.T) {
	rep, err := Sample(testMystery(), nil, 20, 1, nil)
	if err != nil {
		t.Fatalf("sample err: %v", err)
	}
	var sb strings.Builder
	if err := (&YAMLSampleReportRender{}).Write(&sb, rep); err != nil {
		t.Fatalf("render err: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "Samples: 20") || !strings.Contains(out, "GameModes:") {
		t.Errorf("yaml output:\n%s", out)
	}
}
