package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shohjahon1code/telegram-parser/internal/core/domain"
	"github.com/shohjahon1code/telegram-parser/internal/core/ports"
)

const (
	extractionTemperature = 0.1
	defaultExtractTimeout = 45 * time.Second
)

// Extractor turns one raw chat message into candidate loads by prompting the
// extraction capability and parsing its JSON reply. It performs no shape
// repair beyond array coercion; that is the Normalizer's job.
type Extractor struct {
	completer ports.Completer
	timeout   time.Duration
	log       zerolog.Logger
}

func NewExtractor(completer ports.Completer, timeout time.Duration, log zerolog.Logger) *Extractor {
	if timeout <= 0 {
		timeout = defaultExtractTimeout
	}
	return &Extractor{completer: completer, timeout: timeout, log: log}
}

// Extract submits the cleaned message under the fixed instruction block and
// parses the reply into one or more candidates.
//
// An empty reply yields domain.ErrNoExtractionResult; an unparseable reply
// (including a timeout) yields domain.ErrMalformedExtractionResponse. Neither
// is retried here.
func (e *Extractor) Extract(ctx context.Context, raw string) ([]*domain.Load, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cleaned := CleanMessage(raw)

	reply, err := e.completer.Complete(ctx, ports.CompletionRequest{
		Instruction: extractionInstruction,
		Input:       cleaned,
		Temperature: extractionTemperature,
		JSON:        true,
	})
	if err != nil {
		e.log.Warn().Err(err).Msg("extraction call failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedExtractionResponse, err)
	}

	reply = stripCodeFences(strings.TrimSpace(reply))
	if reply == "" {
		return nil, domain.ErrNoExtractionResult
	}

	candidates, err := decodeCandidates(reply)
	if err != nil {
		e.log.Warn().Err(err).Str("reply_head", head(reply, 120)).Msg("unparseable extraction reply")
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedExtractionResponse, err)
	}
	return candidates, nil
}

// decodeCandidates accepts either a JSON array of loads or a single load
// object, coercing the latter into a one-element slice.
func decodeCandidates(reply string) ([]*domain.Load, error) {
	switch {
	case strings.HasPrefix(reply, "["):
		var loads []*domain.Load
		if err := json.Unmarshal([]byte(reply), &loads); err != nil {
			return nil, err
		}
		return loads, nil
	case strings.HasPrefix(reply, "{"):
		var load domain.Load
		if err := json.Unmarshal([]byte(reply), &load); err != nil {
			return nil, err
		}
		return []*domain.Load{&load}, nil
	default:
		return nil, fmt.Errorf("reply is not a JSON object or array")
	}
}

var horizontalWS = regexp.MustCompile(`[ \t]+`)

// CleanMessage collapses runs of horizontal whitespace to one space and runs
// of blank lines to a single blank line, then trims the ends. The blank-line
// boundaries must stay consistent because the segmentation rule in the
// instruction block relies on them.
func CleanMessage(raw string) string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(horizontalWS.ReplaceAllString(line, " "))
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}

// stripCodeFences removes a surrounding markdown code fence, which some
// models add around JSON despite instructions.
func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	start, end := 0, len(lines)
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if start == 0 {
				start = i + 1
			} else {
				end = i
				break
			}
		}
	}
	if start > 0 && end > start {
		return strings.TrimSpace(strings.Join(lines[start:end], "\n"))
	}
	return s
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
