// Package linkcode encodes quizzes and results into self-contained
// base64 tokens carried in URL fragments, and decodes tokens that have
// survived copy-paste through mail clients and chat apps.
package linkcode

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/url"
	"regexp"
	"strings"

	"quizlink/internal/domain"
)

// Fragment markers that carry tokens in share and result links.
const (
	QuizFragment   = "#quiz="
	ResultFragment = "#result="
)

var errNoToken = errors.New("linkcode: no token found in input")

// EncodeQuiz serializes a quiz into a link token.
func EncodeQuiz(quiz *domain.Quiz) (string, error) {
	data, err := json.Marshal(quizToPayload(quiz))
	if err != nil {
		return "", err
	}
	return url.QueryEscape(base64.StdEncoding.EncodeToString(data)), nil
}

// QuizLink builds a full share link for the quiz.
func QuizLink(baseURL string, quiz *domain.Quiz) (string, error) {
	token, err := EncodeQuiz(quiz)
	if err != nil {
		return "", err
	}
	return baseURL + QuizFragment + token, nil
}

// EncodeResult serializes a finished attempt into a link token.
func EncodeResult(result *domain.Result) (string, error) {
	data, err := json.Marshal(resultToPayload(result))
	if err != nil {
		return "", err
	}
	return url.QueryEscape(base64.StdEncoding.EncodeToString(data)), nil
}

// ResultLink builds a full result link for the attempt.
func ResultLink(baseURL string, result *domain.Result) (string, error) {
	token, err := EncodeResult(result)
	if err != nil {
		return "", err
	}
	return baseURL + ResultFragment + token, nil
}

// DecodeQuiz accepts a full share link, a bare token, or free-form text
// containing either, and returns the embedded quiz.
func DecodeQuiz(input string) (*domain.Quiz, error) {
	token, ok := ExtractToken(input)
	if !ok {
		return nil, domain.NewInvalidLinkError(errNoToken)
	}
	var payload QuizPayload
	if err := decodeToken(token, &payload); err != nil {
		return nil, domain.NewInvalidLinkError(err)
	}
	if len(payload.Questions) == 0 {
		return nil, domain.NewInvalidLinkError(errors.New("linkcode: payload has no questions"))
	}
	return payload.toDomain(), nil
}

// DecodeResult accepts a full result link, a bare token, or free-form
// text containing either, and returns the embedded result.
func DecodeResult(input string) (*domain.Result, error) {
	token, ok := ExtractToken(input)
	if !ok {
		return nil, domain.NewInvalidLinkError(errNoToken)
	}
	var payload ResultPayload
	if err := decodeToken(token, &payload); err != nil {
		return nil, domain.NewInvalidLinkError(err)
	}
	if payload.StudentName == "" || payload.QuizID == "" {
		return nil, domain.NewInvalidLinkError(errors.New("linkcode: payload is not a result"))
	}
	return payload.toDomain(), nil
}

var (
	fragmentTokenRe = regexp.MustCompile(`#(?:quiz|result)=([A-Za-z0-9\-_=%+/]+)`)
	hrefTokenRe     = regexp.MustCompile(`href=["']?[^"'\s>]*#(?:quiz|result)=([A-Za-z0-9\-_=%+/]+)`)
	tokenRunRe      = regexp.MustCompile(`[A-Za-z0-9\-_=%+/]{8,}`)
)

// ExtractToken digs a link token out of free-form text. Pasted links
// arrive wrapped in angle brackets, embedded in HTML anchors, or with
// the fragment stripped entirely, so matching falls back from the
// fragment marker to the longest plausible base64 run.
func ExtractToken(text string) (string, bool) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "<")
	text = strings.TrimSuffix(text, ">")
	if text == "" {
		return "", false
	}
	if m := hrefTokenRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	if m := fragmentTokenRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	best := ""
	for _, run := range tokenRunRe.FindAllString(text, -1) {
		if len(run) > len(best) {
			best = run
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// decodeToken runs the token through decode variants in order until one
// yields valid JSON. Each variant repairs one kind of copy-paste damage.
func decodeToken(token string, out interface{}) error {
	variants := decodeVariants(token)
	var lastErr error
	for _, v := range variants {
		data, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			lastErr = err
			continue
		}
		if err := json.Unmarshal(data, out); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("linkcode: empty token")
	}
	return lastErr
}

func decodeVariants(token string) []string {
	seen := make(map[string]bool)
	var variants []string
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			variants = append(variants, v)
		}
	}

	add(token)
	stripped := stripWhitespace(token)
	add(stripped)
	add(fixURLSafe(token))
	add(fixURLSafe(stripped))

	// Mail clients and chat apps percent-encode links a second time when
	// forwarding, so unescape repeatedly until the token stops changing.
	current := stripped
	for i := 0; i < 3; i++ {
		unescaped, err := url.QueryUnescape(current)
		if err != nil || unescaped == current {
			break
		}
		current = unescaped
		add(current)
		add(fixURLSafe(current))
	}
	return variants
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

// fixURLSafe converts a url-safe base64 alphabet back to the standard
// one and restores stripped padding.
func fixURLSafe(s string) string {
	s = strings.ReplaceAll(s, "-", "+")
	s = strings.ReplaceAll(s, "_", "/")
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	return s
}
