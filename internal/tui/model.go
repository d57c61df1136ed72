// Package tui is the interactive converter: paste links, convert, inspect
// each line and read the resulting document.
package tui

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/creamcroissant/subconv/internal/convert"
	"github.com/creamcroissant/subconv/internal/service"
)

// Focus 表示当前获得键盘焦点的区域
type Focus int

const (
	FocusInput   Focus = iota // 输入框
	FocusResults              // 结果列表
	FocusDocument             // YAML 文档
)

// Model 是主 TUI 模型
type Model struct {
	svc service.ConversionService

	input    textarea.Model
	document viewport.Model
	focus    Focus

	// 最近一次转换结果
	report   *convert.Report
	selected int

	// 状态
	converting bool
	seq        int    // 每次转换或清空都会递增，用于丢弃过期结果
	notice     string // 空输入 / 全部失败时的提示
	flash      string // 短暂提示，如“已复制”
	flashSeq   int
	err        error

	// 复制输出：优先剪贴板，不可用时写入临时文件
	copyText func(string) error
	saveText func(string) (string, error)

	// 终端尺寸
	width  int
	height int

	keys keyMap
}

// keyMap 定义全部按键绑定
type keyMap struct {
	Convert key.Binding
	Clear   key.Binding
	Sample  key.Binding
	Copy    key.Binding
	Focus   key.Binding
	Up      key.Binding
	Down    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Convert: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "convert"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear"),
		),
		Sample: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "load sample"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy yaml"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// NewModel 创建新的 TUI 模型，initial 为输入框的初始内容
func NewModel(svc service.ConversionService, initial string) Model {
	input := textarea.New()
	input.Placeholder = "Paste vmess:// vless:// trojan:// links, one per line"
	input.ShowLineNumbers = true
	input.CharLimit = 0
	input.MaxHeight = 0
	input.SetValue(initial)
	input.Focus()

	return Model{
		svc:      svc,
		input:    input,
		document: viewport.New(0, 0),
		focus:    FocusInput,
		keys:     defaultKeyMap(),
		copyText: copyToClipboard,
		saveText: saveToTempFile,
	}
}

const flashDuration = 2 * time.Second

func copyToClipboard(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility found")
	}
	return clipboard.WriteAll(text)
}

// saveToTempFile writes text to a new file and returns its path.
func saveToTempFile(text string) (string, error) {
	f, err := os.CreateTemp("", "subconv-*.yaml")
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return "", err
	}
	return f.Name(), f.Close()
}

// Init 实现 tea.Model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// 消息类型

type convertedMsg struct {
	seq    int
	result *service.ConversionResult
	err    error
}

type flashExpiredMsg struct {
	seq int
}

// 命令

func (m Model) convertCmd(seq int, text string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		res, err := svc.Convert(context.Background(), text)
		return convertedMsg{seq: seq, result: res, err: err}
	}
}

func flashCmd(seq int) tea.Cmd {
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{seq: seq}
	})
}

// Report returns the last conversion report, or nil.
func (m Model) Report() *convert.Report {
	return m.report
}
