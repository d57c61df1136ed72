package convert

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/creamcroissant/subconv/internal/protocol"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"blank", " \n\t\n\r\n", []string{}},
		{"crlf", "a://1\r\nb://2\r\n", []string{"a://1", "b://2"}},
		{"padded", "  a://1  \n\n   \nb://2", []string{"a://1", "b://2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.in))
		})
	}
}

func TestConvertTrojanNode(t *testing.T) {
	report, err := Convert("trojan://pw@h.example:443?sni=alt.example#My%20Node")
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)

	o := report.Outcomes[0]
	require.True(t, o.Success())
	assert.Empty(t, o.Reason())
	assert.Equal(t, "My Node", o.Proxy.Name)
	assert.True(t, o.Proxy.TLS)
	assert.Equal(t, "alt.example", o.Proxy.ServerName)
	assert.Equal(t, StatusOK, report.Status())
	assert.Contains(t, report.Document, "name: My Node")
}

func TestConvertVMessMissingFields(t *testing.T) {
	line := "vmess://" + base64.StdEncoding.EncodeToString([]byte(`{"ps":"x"}`))
	report, err := Convert(line)
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)

	o := report.Outcomes[0]
	assert.False(t, o.Success())
	assert.Nil(t, o.Proxy)
	assert.Equal(t, line, o.Original)
	assert.Equal(t, "Invalid VMess config: missing required fields (ps, add, port, id).", o.Reason())
	assert.True(t, errors.Is(o.Err, protocol.ErrMissingRequiredField))
	assert.Empty(t, report.Document)
	assert.Equal(t, StatusAllFailed, report.Status())
}

func TestConvertMixedBatch(t *testing.T) {
	input := "vless://13806adb-2368-4acf-b805-45b9ec2525d3@v.example:443?security=tls#v1\nftp://nope"
	report, err := Convert(input)
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 2)

	assert.True(t, report.Outcomes[0].Success())
	assert.False(t, report.Outcomes[1].Success())
	assert.Equal(t, "Unsupported or invalid protocol.", report.Outcomes[1].Reason())
	assert.Equal(t, "ftp://nope", report.Outcomes[1].Original)
	assert.Equal(t, 1, report.Succeeded())
	assert.Equal(t, 1, report.Failed())

	var doc struct {
		Proxies []map[string]any `yaml:"proxies"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(report.Document), &doc))
	require.Len(t, doc.Proxies, 1)
	assert.Equal(t, "vless", doc.Proxies[0]["type"])
	assert.Equal(t, "v1", doc.Proxies[0]["name"])
}

func TestConvertBadBase64(t *testing.T) {
	report, err := Convert("vmess://!!!not-base64!!!")
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)
	assert.False(t, report.Outcomes[0].Success())
	assert.True(t, errors.Is(report.Outcomes[0].Err, protocol.ErrDecode))
	assert.NotEmpty(t, report.Outcomes[0].Reason())
}

func TestConvertBlankInput(t *testing.T) {
	for _, in := range []string{"", "\n\n", "  \r\n\t"} {
		report, err := Convert(in)
		require.NoError(t, err)
		assert.Empty(t, report.Outcomes)
		assert.Empty(t, report.Document)
		assert.Equal(t, StatusEmpty, report.Status())
		assert.Equal(t, "Input cannot be empty.", report.Status().Message())
	}
}

func TestConvertSampleInput(t *testing.T) {
	report, err := Convert(SampleInput)
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 4)

	assert.Equal(t, 3, report.Succeeded())
	assert.Equal(t, 1, report.Failed())
	names := []string{}
	for _, p := range report.Proxies() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"example-vmess", "example-vless", "example-trojan"}, names)
	assert.ErrorIs(t, report.Outcomes[3].Err, protocol.ErrMissingRequiredField)

	vless := report.Outcomes[1].Proxy
	require.NotNil(t, vless.VLESS)
	assert.Equal(t, &protocol.WebSocketOptions{Path: "/ray", Host: "sub.example.com"}, vless.VLESS.WebSocket)
}

func TestConvertPreservesOrderAndDuplicates(t *testing.T) {
	lines := strings.Split(SampleInput, "\n")
	input := strings.Join(append(lines, lines...), "\n")

	report, err := Convert(input)
	require.NoError(t, err)
	require.Len(t, report.Outcomes, len(lines)*2)
	for i, o := range report.Outcomes {
		assert.Equal(t, strings.TrimSpace(lines[i%len(lines)]), o.Original)
	}
	assert.Len(t, report.Proxies(), 6)
	assert.Equal(t, 2, strings.Count(report.Document, "name: example-trojan"))
}

func TestConvertIsIdempotent(t *testing.T) {
	first, err := Convert(SampleInput)
	require.NoError(t, err)
	second, err := Convert(SampleInput)
	require.NoError(t, err)
	assert.Equal(t, first.Document, second.Document)
	assert.Equal(t, first.Outcomes, second.Outcomes)
}

func TestConvertParallelMatchesSequential(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 64; i++ {
		switch i % 3 {
		case 0:
			fmt.Fprintf(&b, "trojan://pw@h%d.example:443#t%d\n", i, i)
		case 1:
			fmt.Fprintf(&b, "vless://u@h%d.example:%d#v%d\n", i, 1000+i, i)
		default:
			fmt.Fprintf(&b, "bogus-%d\n", i)
		}
	}
	input := b.String()

	sequential, err := New(Options{}).Convert(input)
	require.NoError(t, err)
	parallel, err := New(Options{Parallelism: 8}).Convert(input)
	require.NoError(t, err)

	assert.Equal(t, sequential.Document, parallel.Document)
	require.Len(t, parallel.Outcomes, 64)
	for i := range sequential.Outcomes {
		assert.Equal(t, sequential.Outcomes[i].Original, parallel.Outcomes[i].Original)
		assert.Equal(t, sequential.Outcomes[i].Success(), parallel.Outcomes[i].Success())
	}
}

func TestConvertCustomRegistry(t *testing.T) {
	c := New(Options{Registry: protocol.NewRegistry(protocol.NewTrojanParser())})
	report, err := c.Convert("trojan://pw@h:443\nvless://u@h:443")
	require.NoError(t, err)
	assert.True(t, report.Outcomes[0].Success())
	assert.ErrorIs(t, report.Outcomes[1].Err, protocol.ErrUnsupportedProtocol)
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "empty", StatusEmpty.String())
	assert.Equal(t, "all_failed", StatusAllFailed.String())
	assert.Empty(t, StatusOK.Message())
	assert.Equal(t, "No valid configurations found. Check the log for details.", StatusAllFailed.Message())
}

func TestConvertVMessNonObjectPayload(t *testing.T) {
	// W10= is base64 for "[]"
	report, err := Convert("vmess://W10=")
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, "Invalid VMess config: missing required fields (ps, add, port, id).", report.Outcomes[0].Reason())
	assert.True(t, errors.Is(report.Outcomes[0].Err, protocol.ErrMissingRequiredField))
	assert.Equal(t, StatusAllFailed, report.Status())
}
