// File path: internal/llm/providers/local.go
package providers

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// localDimension is the fixed dimensionality of locally produced embeddings.
const localDimension = 256

// LocalProvider is the offline fallback used when no API key is configured.
// Embeddings are deterministic hashed bag-of-words vectors, so similar texts
// score high cosine similarity without any external service. Chat replies
// echo the question so the pipeline stays exercisable end to end.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (l *LocalProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	last := strings.TrimSpace(messages[len(messages)-1].Content)
	return "[offline] I cannot reach a generation service right now. Your question was: " + last, nil
}

func (l *LocalProvider) Embed(ctx context.Context, input []string) ([][]float32, error) {
	vectors := make([][]float32, len(input))
	for i, text := range input {
		vectors[i] = hashEmbed(text)
	}
	return vectors, nil
}

func (l *LocalProvider) Name() string {
	return "local"
}

// hashEmbed buckets lowercased word tokens by FNV hash and L2-normalises the
// resulting histogram. Identical text always yields the identical vector.
func hashEmbed(text string) []float32 {
	vec := make([]float32, localDimension)
	for _, token := range tokenize(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		vec[h.Sum32()%localDimension]++
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
