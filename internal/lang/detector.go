package lang

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"github.com/anastasianlp/georgian-rag/internal/llmprovider"
)

// allowlist is Supported as a set, used to validate the remote-LLM
// fallback's reply.
var allowlist = func() map[string]bool {
	m := make(map[string]bool, len(Supported))
	for _, l := range Supported {
		m[l] = true
	}
	return m
}()

// remoteMemoSize bounds the remote-detection memo; entries expire with the
// same 24h window as cached translations.
const remoteMemoSize = 1024

// Detector is the detection pipeline: script check -> vocabulary match
// -> remote-LLM fallback, defaulting to English on total failure. Remote
// verdicts are memoized in a small LRU so repeated queries don't re-ask
// the LLM.
type Detector struct {
	llm    llmprovider.Provider
	remote *expirable.LRU[string, string]
}

// New constructs a Detector. llm may be nil, in which case the remote
// fallback step is skipped and detection falls back to DefaultLanguage.
func New(llm llmprovider.Provider) *Detector {
	if violations := VerifyZeroOverlap(); len(violations) > 0 {
		log.Warn().Strs("violations", violations).Msg("lang_zero_overlap_violation")
	}
	return &Detector{
		llm:    llm,
		remote: expirable.NewLRU[string, string](remoteMemoSize, nil, 24*time.Hour),
	}
}

// Detect runs the full pipeline and never returns an error: on
// total failure it returns DefaultLanguage.
func (d *Detector) Detect(ctx context.Context, query string) string {
	if lang, ok := DetectScript(query); ok {
		return lang
	}
	cleaned := strings.ToLower(strings.TrimSpace(query))
	if lang, ok := DetectVocabulary(cleaned); ok {
		return lang
	}
	if d.llm != nil {
		if lang, ok := d.detectRemote(ctx, query); ok {
			return lang
		}
	}
	return DefaultLanguage
}

func (d *Detector) detectRemote(ctx context.Context, query string) (string, bool) {
	if code, ok := d.remote.Get(query); ok {
		return code, true
	}
	prompt := "Identify the ISO 639-1 language code of the following text. " +
		"Reply with exactly the two-letter code and nothing else.\n\nText: " + query
	completion, err := d.llm.Complete(ctx, prompt)
	if err != nil {
		log.Debug().Err(err).Msg("lang_remote_detect_error")
		return "", false
	}
	code := strings.ToLower(strings.TrimSpace(completion.Text))
	if len(code) > 2 {
		code = code[:2]
	}
	if !allowlist[code] {
		return "", false
	}
	d.remote.Add(query, code)
	return code, true
}
