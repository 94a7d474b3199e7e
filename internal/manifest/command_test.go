package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngineArgFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args map[string]any
		want []string
	}{
		{"true is bare flag", map[string]any{"foo": true}, []string{"--foo"}},
		{"false is dropped", map[string]any{"foo": false}, nil},
		{"string value", map[string]any{"foo": "bar"}, []string{"--foo", "bar"}},
		{"int value", map[string]any{"block-size": 16}, []string{"--block-size", "16"}},
		{"float value", map[string]any{"gpu-memory-utilization": 0.9}, []string{"--gpu-memory-utilization", "0.9"}},
		{"sorted keys", map[string]any{"b": "2", "a": true}, []string{"--a", "--b", "2"}},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, EngineArgFlags(tt.args))
		})
	}
}

func TestCommand_String(t *testing.T) {
	t.Parallel()

	cmd := NewCommand("python3", "-m", "dynamo.vllm").
		Value("model", "org/m").
		FlagIf(true, "enforce-eager").
		FlagIf(false, "trust-remote-code").
		Value("max-model-len", 4096).
		EngineArgs(map[string]any{"foo": true, "bar": "baz"})

	got := cmd.String()
	assert.Equal(t, "python3 -m dynamo.vllm --model org/m --enforce-eager --max-model-len 4096 --bar baz --foo", got)
	assert.Contains(t, got, "--foo")
	assert.Contains(t, got, "--bar baz")
	assert.NotContains(t, got, "trust-remote-code")
}

func TestCommand_ArgsIsCopy(t *testing.T) {
	t.Parallel()

	cmd := NewCommand("a").Arg("b")
	args := cmd.Args()
	args[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, cmd.Args())
}

func TestShellJoin_QuotesUnsafeArguments(t *testing.T) {
	t.Parallel()

	got := ShellJoin([]string{"echo", "hello world"})
	assert.NotEqual(t, "echo hello world", got)
	assert.Contains(t, got, "hello world")
	assert.Equal(t, "echo", got[:4])
}
