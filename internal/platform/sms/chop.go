package sms

import "fmt"

const (
	singleMaxLen = 160
	blockLen     = 150 // leaves room for the prepended (XX/YY)
)

// ChopMessage splits a long message into 150-char blocks prefixed with a
// (part/total) marker. Messages that fit in one SMS pass through intact.
func ChopMessage(msg string) []string {
	if len(msg) < singleMaxLen {
		return []string{msg}
	}
	total := (len(msg) + blockLen - 1) / blockLen
	blocks := make([]string, 0, total)
	for i := 0; i < total; i++ {
		start := i * blockLen
		end := start + blockLen
		if end > len(msg) {
			end = len(msg)
		}
		blocks = append(blocks, fmt.Sprintf("(%d/%d) %s", i+1, total, msg[start:end]))
	}
	return blocks
}
