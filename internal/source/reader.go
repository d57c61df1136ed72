package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// StdinName selects standard input in a list of input paths.
const StdinName = "-"

// RetryConfig controls how file reads are retried while a file is
// temporarily missing, e.g. during an editor's atomic rename.
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryConfig 返回读取文件的默认重试配置。
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      5,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
	}
}

func (c RetryConfig) backOff(ctx context.Context) backoff.BackOff {
	if c.InitialInterval <= 0 {
		c.InitialInterval = 50 * time.Millisecond
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = time.Second
	}
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.InitialInterval
	exp.MaxInterval = c.MaxInterval
	exp.MaxElapsedTime = 0

	var b backoff.BackOff = exp
	if c.MaxRetries >= 0 {
		b = backoff.WithMaxRetries(b, uint64(c.MaxRetries))
	}
	return backoff.WithContext(b, ctx)
}

// ReadFile reads path, retrying only while the file does not exist.
func ReadFile(ctx context.Context, path string, cfg RetryConfig) (string, error) {
	var data []byte
	op := func() error {
		var err error
		data, err = os.ReadFile(path)
		if err == nil {
			return nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return backoff.Permanent(err)
	}
	if err := backoff.Retry(op, cfg.backOff(ctx)); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// ReadInputs concatenates the given inputs, one per line. No paths, or the
// path "-", reads stdin. Stdin is read at most once.
func ReadInputs(ctx context.Context, paths []string, stdin io.Reader, cfg RetryConfig) (string, error) {
	if len(paths) == 0 {
		paths = []string{StdinName}
	}
	buf := NewBuffer("")
	stdinRead := false
	for _, path := range paths {
		if path == StdinName {
			if stdinRead {
				continue
			}
			stdinRead = true
			data, err := io.ReadAll(stdin)
			if err != nil {
				return "", fmt.Errorf("read stdin: %w", err)
			}
			buf.Append(string(data))
			continue
		}
		text, err := ReadFile(ctx, path, cfg)
		if err != nil {
			return "", err
		}
		buf.Append(text)
	}
	return buf.Text(), nil
}
