package ai

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var (
	pricePattern   = regexp.MustCompile(`\$([0-9]+(?:\.[0-9]+)?)\$`)
	numberRegex    = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)
	ErrParseFailed = errors.New("parse_failed")
)

// ParsePrice extracts the suggested price from model output. It first tries
// the strict $<number>$ envelope the prompt asks for, and falls back to the
// longest number found in the text (e.g. "around 1200 for this edition").
func ParsePrice(text string) (int64, error) {
	m := pricePattern.FindStringSubmatch(text)
	if len(m) >= 2 {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrParseFailed, err)
		}
		return int64(math.Round(v)), nil
	}
	matches := numberRegex.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("%w: no price found", ErrParseFailed)
	}
	bestIdx := matches[0]
	for _, m := range matches[1:] {
		if (m[1] - m[0]) > (bestIdx[1] - bestIdx[0]) {
			bestIdx = m
		}
	}
	v, err := strconv.ParseFloat(text[bestIdx[0]:bestIdx[1]], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	return int64(math.Round(v)), nil
}
