package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// Config はコマンドライン引数から解析された設定を保持する
type Config struct {
	SourcePath    string // ソースファイルのパス
	OutputPath    string // 実行ファイルの出力先（空ならソースパスから拡張子を除いたもの）
	EmitIR        string // IRのコピー先（空なら出力しない）
	Compiler      string // ネイティブコンパイラ（空なら設定ファイルまたはclang）
	ConfigPath    string // ビルド設定ファイル（YAML）のパス
	CollectErrors bool   // 最初のエラーで止めずにすべてのエラーを報告する
	LogLevel      string // ログレベル（debug, info, warn, error）
	ShowHelp      bool   // ヘルプ表示フラグ
}

// boolFlags は値を取らないフラグ
var boolFlags = map[string]bool{
	"-h":               true,
	"--help":           true,
	"-help":            true,
	"--collect-errors": true,
	"-collect-errors":  true,
}

// ParseArgs コマンドライン引数を解析してConfigを返す
func ParseArgs(args []string) (*Config, error) {
	// 引数を並べ替え：フラグを前に、位置引数を後ろに
	reorderedArgs := reorderArgs(args)

	fs := flag.NewFlagSet("trustc", flag.ContinueOnError)

	config := &Config{}

	fs.StringVar(&config.OutputPath, "output", "", "実行ファイルの出力先")
	fs.StringVar(&config.OutputPath, "o", "", "実行ファイルの出力先（短縮形）")
	fs.StringVar(&config.EmitIR, "emit-ir", "", "生成したIRの保存先")
	fs.StringVar(&config.Compiler, "cc", "", "ネイティブコンパイラ")
	fs.StringVar(&config.ConfigPath, "config", "", "ビルド設定ファイル（YAML）")
	fs.BoolVar(&config.CollectErrors, "collect-errors", false, "すべてのエラーを報告")
	fs.StringVar(&config.LogLevel, "log-level", "warn", "ログレベル（debug, info, warn, error）")
	fs.StringVar(&config.LogLevel, "l", "warn", "ログレベル（短縮形）")
	fs.BoolVar(&config.ShowHelp, "help", false, "ヘルプを表示")
	fs.BoolVar(&config.ShowHelp, "h", false, "ヘルプを表示（短縮形）")

	if err := fs.Parse(reorderedArgs); err != nil {
		return nil, err
	}

	// ログレベルの検証
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}

	// 位置引数（ソースファイルのパス）
	switch fs.NArg() {
	case 0:
	case 1:
		config.SourcePath = fs.Arg(0)
	default:
		return nil, fmt.Errorf("expected one source file, got %d: %s", fs.NArg(), strings.Join(fs.Args(), " "))
	}

	return config, nil
}

// reorderArgs 引数を並べ替えて、フラグを前に、位置引数を後ろに配置する
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "--" 以降はすべて位置引数
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}

		// フラグかどうかを判定（-または--で始まる）
		if len(arg) > 1 && arg[0] == '-' {
			flags = append(flags, arg)

			// 次の引数が値である可能性をチェック（-o hello のような場合）
			// --output=hello の形式とブール型フラグは次の引数を取らない
			if !strings.Contains(arg, "=") && !boolFlags[arg] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			// 位置引数
			positional = append(positional, arg)
		}
	}

	// フラグを前に、位置引数を後ろに配置
	result := append(flags, "--")
	return append(result, positional...)
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp() {
	fmt.Fprintf(os.Stdout, `trustc - Trust Compiler

Usage:
  trustc [options] <source>

Arguments:
  source        コンパイルするソースファイル（UTF-8またはShift-JIS）

Options:
  -o, --output <path>         実行ファイルの出力先（デフォルト: ソースパスから拡張子を除いたもの）
  --emit-ir <path>            生成したLLVM IRを指定パスにも保存
  --cc <path>                 ネイティブコンパイラ（デフォルト: clang）
  --config <path>             ビルド設定ファイル（YAML）
  --collect-errors            最初のエラーで止めずにすべてのエラーを報告
  -l, --log-level <level>     ログレベル: debug, info, warn, error（デフォルト: warn）
  -h, --help                  このヘルプを表示

Examples:
  trustc hello.trust                       hello を生成
  trustc -o bin/hello hello.trust          出力先を指定
  trustc --emit-ir hello.ll hello.trust    IRも保存
  trustc --config trustc.yaml hello.trust  設定ファイルを使用
  trustc --log-level debug hello.trust     デバッグログを有効化
`)
}
