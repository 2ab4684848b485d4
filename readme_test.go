package cryptofolio

import (
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// This file contains the logic to test the examples in the README.md file.
//
// To add a new testable example to the README.md file, you need to follow these steps:
//
// 1.  Add the command to the README.md file, wrapped in a ```bash ... ``` block.
// 2.  Add the expected output of the command, wrapped in a ```console ... ``` block.
//
// Commands run in order, in a temporary directory holding a copy of testdata/rows.csv,
// against a fresh SQLite ledger. Examples that need the network use a ```shell block.

// Command holds a command and its expected output.
type Command struct {
	Cmd      string
	Expected string
}

// buildCfo builds the cfo command and returns the path to the executable.
func buildCfo(t *testing.T, tmp string) string {
	t.Helper()

	output := filepath.Join(tmp, "cfo")

	buildCmd := exec.Command("go", "build", "-o", output, "./cfo/")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build cfo command: %v\n%s", err, out)
	}

	return output
}

// parseReadme extracts commands and their expected outputs from README.md.
func parseReadme(t *testing.T) []Command {
	t.Helper()

	content, err := os.ReadFile("README.md")
	if err != nil {
		t.Fatalf("failed to read README.md: %v", err)
	}

	re := regexp.MustCompile("(?m)```bash\\n(cfo.*?)\\n```\\n\\n```console\\n((.|\\n)*?)```")
	matches := re.FindAllStringSubmatch(string(content), -1)

	var commands []Command
	for _, match := range matches {
		commands = append(commands, Command{Cmd: match[1], Expected: match[2]})
	}
	return commands
}

func TestReadme(t *testing.T) {
	tmp := t.TempDir()
	cfoPath := buildCfo(t, tmp)

	rows, err := os.ReadFile(filepath.Join("testdata", "rows.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "rows.csv"), rows, 0644); err != nil {
		t.Fatal(err)
	}

	commands := parseReadme(t)
	if len(commands) == 0 {
		t.Fatal("no testable command found in README.md")
	}

	for _, cmd := range commands {
		args := strings.Fields(cmd.Cmd)
		t.Log("Running command:", cfoPath, args)
		command := exec.Command(cfoPath, args[1:]...)
		command.Dir = tmp
		output, err := command.CombinedOutput()
		if err != nil {
			t.Fatalf("failed to run command: %v, output: \n%s", err, output)
		}
		if result := string(output); cmd.Expected != result {
			t.Errorf("%s: expected output:\n%q\nbut got:\n%q", cmd.Cmd, cmd.Expected, result)
		}
	}
}
