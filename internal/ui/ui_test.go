package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pleimann/rebinder/internal/rebind"
)

func TestPrintPacks(t *testing.T) {
	packs := []rebind.Pack{
		{ContextID: "OnFoot", ActionID: "IA_Jump", DefaultKey: "space", CustomKey: "e", DisplayName: "Jump", Position: 0},
		{ContextID: "OnFoot", ActionID: "IA_Crouch", DefaultKey: "c", CustomKey: "c", DisplayName: "Crouch", Position: 2},
	}

	var buf bytes.Buffer
	PrintPacks(&buf, "Bindings", packs, nil)
	out := buf.String()

	for _, want := range []string{"Bindings", "2 action(s)", "Jump", "OnFoot[0]", "(default space)", "Crouch", "OnFoot[2]"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
	if strings.Count(out, "(default") != 1 {
		t.Errorf("only rebound packs should show their default key\n%s", out)
	}
}

func TestPrintPacksNumbers(t *testing.T) {
	packs := []rebind.Pack{
		{ContextID: "Vehicle", ActionID: "IA_Horn", DefaultKey: "h", CustomKey: "h", DisplayName: "Horn", Position: 1},
	}

	var buf bytes.Buffer
	PrintPacks(&buf, "Bindings", packs, []int{12})
	if !strings.Contains(buf.String(), "12") {
		t.Errorf("expected pack number 12\n%s", buf.String())
	}
}

func TestPrintPacksEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintPacks(&buf, "Bindings", nil, nil)
	if !strings.Contains(buf.String(), "No rebindable actions") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestPrintReport(t *testing.T) {
	tests := []struct {
		name    string
		report  rebind.Report
		want    []string
		notWant []string
	}{
		{
			name:    "quiet",
			report:  rebind.Report{Contexts: 2},
			want:    []string{"2 context(s)"},
			notWant: []string{"restored", "dropped", "new"},
		},
		{
			name:   "busy",
			report: rebind.Report{Contexts: 1, Restored: 3, Pruned: 1, Discovered: 2},
			want:   []string{"1 context(s)", "3 restored", "1 dropped", "2 new"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			PrintReport(&buf, tt.report)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("expected %q in %q", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("did not expect %q in %q", w, out)
				}
			}
		})
	}
}

func TestPrintReportBoxed(t *testing.T) {
	var buf bytes.Buffer
	PrintReport(&buf, rebind.Report{Contexts: 1, Pruned: 1})
	out := buf.String()

	if !strings.Contains(out, "╭") || !strings.Contains(out, "╯") {
		t.Errorf("expected a rounded box\n%s", out)
	}
	if !strings.Contains(out, "Reconciled: 1 context(s), 1 dropped") {
		t.Errorf("expected the summary on one line\n%s", out)
	}
}

func TestPrintConfigCreated(t *testing.T) {
	var buf bytes.Buffer
	PrintConfigCreated(&buf, "config.yaml", "contexts")
	out := buf.String()

	for _, want := range []string{"Configuration created", "config.yaml", "Next steps", " list", " remap <action> <key>"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf, "1.2.3",
		[]CommandHelp{{Use: "list", Short: "List bindings"}},
		[]FlagHelp{{Usage: "--config string", Desc: "Path to configuration file"}},
	)
	out := buf.String()

	for _, want := range []string{"v1.2.3", "Commands", "list", "List bindings", "--config string", "Examples"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected usage to contain %q", want)
		}
	}
}
