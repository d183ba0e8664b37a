package fetch

import (
	"fmt"
	"strconv"
	"strings"
)

// Session identifies one downloadable session. Type is the session kind
// annotation carried by Chamber code files ("OD", "CP", ...); Senate
// code files have no type and leave it empty.
type Session struct {
	Type string
	Code int
}

// ParseCodes reads a session code listing. Two layouts exist: Senate
// files carry one numeric code per line, Chamber files alternate a type
// line with a code line. The layout is detected from the content.
func ParseCodes(content string) ([]Session, error) {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return nil, nil
	}

	allNumeric := true
	for _, line := range lines {
		if _, err := strconv.Atoi(line); err != nil {
			allNumeric = false
			break
		}
	}

	if allNumeric {
		sessions := make([]Session, 0, len(lines))
		for _, line := range lines {
			code, _ := strconv.Atoi(line)
			sessions = append(sessions, Session{Code: code})
		}
		return sessions, nil
	}

	if len(lines)%2 != 0 {
		return nil, fmt.Errorf("type/code listing has odd line count %d", len(lines))
	}
	sessions := make([]Session, 0, len(lines)/2)
	for i := 0; i < len(lines); i += 2 {
		code, err := strconv.Atoi(lines[i+1])
		if err != nil {
			return nil, fmt.Errorf("line %d: expected session code, got %q", i+2, lines[i+1])
		}
		sessions = append(sessions, Session{Type: lines[i], Code: code})
	}
	return sessions, nil
}
