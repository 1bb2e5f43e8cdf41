package repo

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// CodePool is the static pool of pre-generated event codes, loaded once
// at startup from a newline-delimited file.
type CodePool struct {
	codes []string
}

// LoadCodePool reads the code file. Blank lines are skipped.
func LoadCodePool(path string) (*CodePool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading code file: %w", err)
	}

	var codes []string
	for _, line := range strings.Split(string(data), "\n") {
		code := strings.TrimSpace(line)
		if code != "" {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("code file %s contains no codes", path)
	}

	return &CodePool{codes: codes}, nil
}

// Draw picks one code uniformly at random. Collisions with existing
// events are possible and handled at creation time.
func (p *CodePool) Draw() string {
	return p.codes[rand.Intn(len(p.codes))]
}

// Size reports how many codes the pool holds.
func (p *CodePool) Size() int {
	return len(p.codes)
}
