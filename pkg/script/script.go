package script

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/zurustar/trustc/pkg/compiler/symbols"
)

// Script はソースファイルを表す
type Script struct {
	FileName string         // ファイル名
	Path     string         // 読み込んだパス
	Content  string         // UTF-8に変換された内容
	Size     int64          // ファイルサイズ
	Lines    []symbols.Line // コメント除去済みの行
}

// Load ソースファイルを読み込み、行に分割する
func Load(path string) (*Script, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	content, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert encoding: %w", err)
	}

	return &Script{
		FileName: filepath.Base(path),
		Path:     path,
		Content:  content,
		Size:     info.Size(),
		Lines:    SplitLines(content),
	}, nil
}

// FromString 文字列からScriptを作成（テスト・埋め込み用）
func FromString(name, content string) *Script {
	return &Script{
		FileName: name,
		Content:  content,
		Size:     int64(len(content)),
		Lines:    SplitLines(content),
	}
}

// Decode バイト列をUTF-8文字列に変換する
// 有効なUTF-8ならBOMを除去してそのまま使い、そうでなければShift-JISとして扱う
func Decode(data []byte) (string, error) {
	if utf8.Valid(data) {
		out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), data)
		if err != nil {
			return "", fmt.Errorf("failed to strip BOM: %w", err)
		}
		return string(out), nil
	}

	decoder := japanese.ShiftJIS.NewDecoder()
	utf8Data, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), decoder))
	if err != nil {
		return "", fmt.Errorf("failed to decode Shift-JIS: %w", err)
	}
	return string(utf8Data), nil
}

// SplitLines 内容を行に分割し、各行の末尾コメントを取り除く
func SplitLines(content string) []symbols.Line {
	if content == "" {
		return nil
	}
	raw := strings.Split(content, "\n")
	// 末尾の改行の後ろは行として数えない
	if raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}

	lines := make([]symbols.Line, len(raw))
	for i, r := range raw {
		r = strings.TrimSuffix(r, "\r")
		lines[i] = symbols.Line{
			Number: i + 1,
			Text:   StripComment(r),
			Raw:    r,
		}
	}
	return lines
}

// StripComment 行末の // コメントを除去する（ダブルクォート内は対象外）
func StripComment(line string) string {
	inQuotes := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuotes = !inQuotes
		case '/':
			if !inQuotes && i+1 < len(line) && line[i+1] == '/' {
				return line[:i]
			}
		}
	}
	return line
}
