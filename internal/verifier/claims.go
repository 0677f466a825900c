package verifier

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Claims shorter than this after trimming are considered parsing noise.
const minClaimLength = 11

var (
	ordinalPrefix = regexp.MustCompile(`^\d+\.\s*`)
	bulletPrefix  = regexp.MustCompile(`^[-*]\s*`)
)

// extractClaims asks the verification model to list the answer's factual
// claims, one per line. A downstream failure or an unparseable response
// degrades to the whole answer as a single claim, so verification can always
// proceed with a pessimistic check instead of aborting.
func (v *Verifier) extractClaims(ctx context.Context, answerText string) []string {
	prompt := fmt.Sprintf(
		"Extract the main factual claims from this text. "+
			"List each claim on a separate line, numbered.\n\n"+
			"Text: %s\n\n"+
			"Claims:",
		answerText)

	response, err := v.llmClient.Generate(ctx, v.model, prompt, extractionMaxTokens)
	if err != nil {
		v.logger.Warn().Err(err).Msg("claim extraction failed, treating answer as single claim")
		return []string{answerText}
	}

	claims := parseClaimLines(response)
	if len(claims) == 0 {
		if strings.TrimSpace(response) == "" {
			// The model found nothing to extract.
			return nil
		}
		return []string{answerText}
	}

	return claims
}

func parseClaimLines(response string) []string {
	var claims []string

	for _, line := range strings.Split(response, "\n") {
		cleaned := strings.TrimSpace(line)
		cleaned = ordinalPrefix.ReplaceAllString(cleaned, "")
		cleaned = bulletPrefix.ReplaceAllString(cleaned, "")
		cleaned = strings.TrimSpace(cleaned)

		if len(cleaned) >= minClaimLength {
			claims = append(claims, cleaned)
		}
	}

	return claims
}
