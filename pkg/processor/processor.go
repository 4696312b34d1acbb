package processor

import (
	"strings"
	"unicode/utf8"
)

type ProcessorConfig struct {
	// MaxChars caps page text length in characters. Zero disables trimming.
	MaxChars int
}

type Processor struct {
	config ProcessorConfig
}

func NewWithConfig(config ProcessorConfig) Processor {
	if config.MaxChars < 0 {
		config.MaxChars = 0
	}
	return Processor{
		config: config,
	}
}

func (p *Processor) Enabled() bool {
	return p.config.MaxChars > 0
}

// Trim shortens text to at most MaxChars characters, cutting at the last
// sentence boundary that fits. The second return value reports whether
// anything was removed.
func (p *Processor) Trim(text string) (string, bool) {
	limit := p.config.MaxChars
	if limit == 0 || utf8.RuneCountInString(text) <= limit {
		return text, false
	}

	var kept strings.Builder
	count := 0
	for _, sentence := range splitIntoSentences(text) {
		n := utf8.RuneCountInString(sentence)
		if count+n > limit {
			break
		}
		kept.WriteString(sentence)
		count += n
	}

	// Nothing but separators fit, so cut mid-sentence instead.
	result := strings.TrimRight(kept.String(), " \n")
	if result == "" {
		return string([]rune(text)[:limit]), true
	}
	return result, true
}

// splitIntoSentences splits text after sentence enders, keeping the
// separators so that joining the pieces restores the input.
func splitIntoSentences(text string) []string {
	sentenceEnders := []string{". ", "! ", "? ", ".\n", "!\n", "?\n", "\n"}
	var sentences []string

	current := strings.Builder{}

	for i := 0; i < len(text); i++ {
		current.WriteByte(text[i])

		for _, ender := range sentenceEnders {
			if strings.HasSuffix(current.String(), ender) {
				sentences = append(sentences, current.String())
				current.Reset()
				break
			}
		}
	}

	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}

	return sentences
}
