package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/allergen-profile/internal/allergen"
	"github.com/rcliao/allergen-profile/internal/journal"
	"github.com/rcliao/allergen-profile/internal/profile"
)

var prompt = allergen.Menu() + "\n" + addPrompt

func newProfile() *profile.Profile {
	return profile.New("John Doe", 18, 1.80, 70.0)
}

func runSession(t *testing.T, p *profile.Profile, rec Recorder, input string) (stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	s := New(Config{In: strings.NewReader(input), Out: &out, Err: &errOut, Profile: p, Journal: rec})
	require.NoError(t, s.Run(context.Background()))
	return out.String(), errOut.String()
}

func TestRun_QuitFirst(t *testing.T) {
	p := newProfile()
	out, errOut := runSession(t, p, nil, "q\n")
	assert.Equal(t, prompt, out)
	assert.Empty(t, errOut)
	assert.True(t, p.Allergies().Empty())
}

func TestRun_AddAndShow(t *testing.T) {
	p := newProfile()
	out, errOut := runSession(t, p, nil, "1\n16\na\nq\n")
	assert.Equal(t, strings.Repeat(prompt, 3)+"John Doe has EGGS|TMTO allergies.\n"+prompt, out)
	assert.Empty(t, errOut)
}

func TestRun_AddIsIdempotent(t *testing.T) {
	p := newProfile()
	runSession(t, p, nil, "17\n17\n 17 \nq\n")
	assert.Equal(t, allergen.Set(allergen.EGGS|allergen.TMTO), p.Allergies())
}

func TestRun_InvalidAdd(t *testing.T) {
	tbl := []struct {
		name  string
		input string
	}{
		{"zero", "0\n"},
		{"outside universe", "256\n"},
		// stray bits are rejected instead of being stored next to valid ones
		{"valid bit with stray bit", "257\n"},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			p := newProfile()
			require.NoError(t, p.AddAllergies(uint32(allergen.CATS)))
			_, errOut := runSession(t, p, nil, tt.input+"q\n")
			assert.Equal(t, "Invalid option\n", errOut)
			assert.Equal(t, allergen.Set(allergen.CATS), p.Allergies())
		})
	}
}

func TestRun_Remove(t *testing.T) {
	p := newProfile()
	out, errOut := runSession(t, p, nil, "17\nc\n1\na\nq\n")
	want := strings.Repeat(prompt, 2) + removePrompt + prompt + "John Doe has TMTO allergies.\n" + prompt
	assert.Equal(t, want, out)
	assert.Empty(t, errOut)
}

func TestRun_InvalidRemoveIsSilent(t *testing.T) {
	// unlike the add path, a bad remove mask produces no diagnostic
	for _, in := range []string{"0", "256", "257", "abc", ""} {
		t.Run(in, func(t *testing.T) {
			p := newProfile()
			_, errOut := runSession(t, p, nil, "17\nc\n"+in+"\nq\n")
			assert.Empty(t, errOut)
			assert.Equal(t, allergen.Set(allergen.EGGS|allergen.TMTO), p.Allergies())
		})
	}
}

func TestRun_Info(t *testing.T) {
	p := profile.New("Britney", 32, 156.3, 60.8)
	out, _ := runSession(t, p, nil, "i\nq\n")
	assert.Equal(t, prompt+"Britney: Age = 32; Height = 156.30; Weight = 60.80\n"+prompt, out)
}

func TestRun_IgnoresUnknownInput(t *testing.T) {
	p := newProfile()
	out, errOut := runSession(t, p, nil, "x\nhello\n\n-3\n99999999999\nh\nq\n")
	assert.Equal(t, strings.Repeat(prompt, 7), out)
	assert.Empty(t, errOut)
	assert.True(t, p.Allergies().Empty())
}

func TestRun_EndOfInput(t *testing.T) {
	t.Run("no input", func(t *testing.T) {
		out, _ := runSession(t, newProfile(), nil, "")
		assert.Equal(t, prompt, out)
	})

	t.Run("last line without newline", func(t *testing.T) {
		out, _ := runSession(t, newProfile(), nil, "8\na")
		assert.Equal(t, strings.Repeat(prompt, 2)+"John Doe has STWB allergies.\n"+prompt, out)
	})

	t.Run("during remove prompt", func(t *testing.T) {
		p := newProfile()
		out, _ := runSession(t, p, nil, "8\nc\n")
		assert.Equal(t, strings.Repeat(prompt, 2)+removePrompt+prompt, out)
		assert.Equal(t, allergen.Set(allergen.STWB), p.Allergies())
	})
}

func TestRun_History(t *testing.T) {
	j, err := journal.Open(context.Background(), journal.MemoryDSN)
	require.NoError(t, err)
	defer j.Close()

	p := newProfile()
	out, _ := runSession(t, p, j, "h\n1\n16\n0\nc\n1\nh\nq\n")
	assert.Contains(t, out, "No changes recorded.\n")
	assert.Contains(t, out, "1. add 1 -> EGGS\n2. add 16 -> EGGS|TMTO\n3. remove 1 -> TMTO\n")

	entries, err := j.List(context.Background(), "John Doe")
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRun_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	s := New(Config{In: strings.NewReader("1\n"), Out: &out, Err: &out, Profile: newProfile()})
	err := s.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("broken pipe") }

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRun_IOFailures(t *testing.T) {
	t.Run("read", func(t *testing.T) {
		var out bytes.Buffer
		s := New(Config{In: failingReader{}, Out: &out, Err: &out, Profile: newProfile()})
		err := s.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read input: broken pipe")
	})

	t.Run("write", func(t *testing.T) {
		s := New(Config{In: strings.NewReader("q\n"), Out: failingWriter{}, Err: failingWriter{}, Profile: newProfile()})
		err := s.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "write output: disk full")
	})

	t.Run("diagnostic write", func(t *testing.T) {
		var out bytes.Buffer
		s := New(Config{In: strings.NewReader("0\nq\n"), Out: &out, Err: failingWriter{}, Profile: newProfile()})
		err := s.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "write output")
	})
}
