package rewriter

import (
	"fmt"

	"github.com/ducpham-dev/xpilot/internal/rewriter/providers"
	"github.com/ducpham-dev/xpilot/internal/types"
)

// ForAccount creates a Rewriter with the provider the account is configured
// for.
func ForAccount(a types.Account, opts ...Option) (*Rewriter, error) {
	if a.UseGemini {
		if a.GeminiKey == "" {
			return nil, fmt.Errorf("account %s has no Gemini API key", a.ProfileID)
		}
		return New(providers.NewGeminiProvider(a.GeminiKey, ""), opts...), nil
	}
	if a.ChatGPTKey == "" {
		return nil, fmt.Errorf("account %s has no ChatGPT API key", a.ProfileID)
	}
	return New(providers.NewOpenAIProvider(a.ChatGPTKey, ""), opts...), nil
}
