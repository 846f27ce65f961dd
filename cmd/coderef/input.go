package main

import (
	"bufio"
	"io"
	"strings"
)

// readInputs returns args, or the non-blank lines of stdin when args is empty
// or a single "-". Lines starting with "#" are comments.
func readInputs(args []string, stdin io.Reader) ([]string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return args, nil
	}

	var inputs []string
	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return inputs, nil
}
