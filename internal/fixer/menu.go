package fixer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MenuReader defines interface for reading user input (for testing)
type MenuReader interface {
	ReadString(delim byte) (string, error)
}

// DefaultMenuReader wraps bufio.Reader
type DefaultMenuReader struct {
	reader *bufio.Reader
}

func NewMenuReader(r io.Reader) *DefaultMenuReader {
	return &DefaultMenuReader{reader: bufio.NewReader(r)}
}

func (d *DefaultMenuReader) ReadString(delim byte) (string, error) {
	return d.reader.ReadString(delim)
}

// readAnswer reads one trimmed line. A final line without a newline is
// still an answer.
func readAnswer(reader MenuReader) (string, error) {
	input, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}

// Confirm shows the backup warning for root and reports whether the user
// typed "yes".
func Confirm(reader MenuReader, out io.Writer, root string) (bool, error) {
	fmt.Fprintf(out, "\nWARNING:\n"+
		"This will check the codebase for inconsistencies between the include\n"+
		"statements in the files and the actual filenames in the filesystem. It will\n"+
		"process the folder '%s'.\n"+
		"This action is irreversible. Type 'yes' to confirm you made a backup of the folder.\n"+
		"Type anything else to abort the operation.\n\n", root)
	fmt.Fprint(out, "Type 'yes' to confirm: ")

	answer, err := readAnswer(reader)
	if err != nil {
		return false, err
	}
	if !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(out, "Operation aborted.")
		return false, nil
	}
	fmt.Fprintln(out, "Confirmed. Starting the process.")
	return true, nil
}
