package crew

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatWithContext(t *testing.T) {
	t.Run("substitutes known placeholders", func(t *testing.T) {
		got := FormatWithContext("Analyze: {transcript} about {conflict_types}", map[string]string{
			"transcript":     "A: hi\nB: hello",
			"conflict_types": "communication, finances",
		})
		assert.Equal(t, "Analyze: A: hi\nB: hello about communication, finances", got)
	})

	t.Run("unknown placeholders stay verbatim", func(t *testing.T) {
		got := FormatWithContext("hello {name} and {missing}", map[string]string{"name": "world"})
		assert.Equal(t, "hello world and {missing}", got)
	})

	t.Run("single pass never re-expands", func(t *testing.T) {
		got := FormatWithContext("{a}", map[string]string{"a": "{b}", "b": "boom"})
		assert.Equal(t, "{b}", got)
	})

	t.Run("empty context is identity", func(t *testing.T) {
		assert.Equal(t, "keep {this}", FormatWithContext("keep {this}", nil))
	})
}
