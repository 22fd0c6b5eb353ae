package cmd

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/ruraldesk/ruraldesk/internal/rag"
)

// captureStdout runs fn and returns everything it printed to stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("creating pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestExecuteUnknownCommand(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"ruraldesk", "frobnicate"}

	err := Execute()
	if err == nil {
		t.Fatal("Execute() should reject unknown commands")
	}
	if !strings.Contains(err.Error(), "frobnicate") {
		t.Errorf("error %q should name the unknown command", err)
	}
}

func TestExecuteNoArgsShowsHelp(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"ruraldesk"}

	var err error
	output := captureStdout(t, func() { err = Execute() })
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, expected := range []string{"serve", "ask", "migrate", "OPENAI_API_KEY", "GEMINI_API_KEY"} {
		if !strings.Contains(output, expected) {
			t.Errorf("help output missing %q", expected)
		}
	}
}

func TestRunVersion(t *testing.T) {
	output := captureStdout(t, runVersion)

	for _, expected := range []string{"RuralDesk", Version, "Build Time:", "Git Commit:"} {
		if !strings.Contains(output, expected) {
			t.Errorf("version output missing %q\nGot: %s", expected, output)
		}
	}
}

func TestPrintResult(t *testing.T) {
	result := &rag.Result{
		Chunks: []rag.Chunk{
			{Content: "Telehealth visits are reimbursable under program X.", Similarity: 0.92},
			{Content: "Billing code 99213 applies to established patients.", Similarity: 0.85},
		},
		KnowledgeBases: []rag.KnowledgeBase{rag.KBTelehealth, rag.KBBilling},
		TotalResults:   6,
	}

	output := captureStdout(t, func() { printResult("telehealth billing?", result) })

	for _, expected := range []string{
		"telehealth billing?",
		"telehealth, billing",
		"2 shown of 6 found",
		"0.920",
		"reimbursable",
	} {
		if !strings.Contains(output, expected) {
			t.Errorf("expected output to contain %q\nGot: %s", expected, output)
		}
	}
}

func TestPrintResultEmpty(t *testing.T) {
	result := &rag.Result{KnowledgeBases: []rag.KnowledgeBase{rag.KBGrants}}

	output := captureStdout(t, func() { printResult("anything", result) })
	if !strings.Contains(output, "No relevant passages found.") {
		t.Errorf("empty result output = %s", output)
	}
}

func TestRunAskRequiresQuestion(t *testing.T) {
	if err := runAsk(nil); err == nil {
		t.Fatal("runAsk() should reject an empty question")
	}
	if err := runAsk([]string{"  ", ""}); err == nil {
		t.Fatal("runAsk() should reject a whitespace question")
	}
}
