package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/zurustar/trustc/pkg/cli"
	"github.com/zurustar/trustc/pkg/compiler"
	"github.com/zurustar/trustc/pkg/compiler/diag"
	"github.com/zurustar/trustc/pkg/config"
	"github.com/zurustar/trustc/pkg/fileutil"
	"github.com/zurustar/trustc/pkg/logger"
	"github.com/zurustar/trustc/pkg/opcode"
	"github.com/zurustar/trustc/pkg/toolchain"
)

// irFileName はスクラッチディレクトリ内のIRファイル名
const irFileName = "output.ll"

// ReportedError は診断メッセージを標準エラーへ出力済みのエラー
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string {
	return e.Err.Error()
}

func (e *ReportedError) Unwrap() error {
	return e.Err
}

// IsReported errがすでに出力済みかどうかを返す
func IsReported(err error) bool {
	var re *ReportedError
	return errors.As(err, &re)
}

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	config *cli.Config
	build  *config.Config
	log    *slog.Logger

	stdout io.Writer
	stderr io.Writer
}

// New Applicationを作成
func New() *Application {
	return &Application{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// Run アプリケーションを実行
func (app *Application) Run(args []string) error {
	return app.RunContext(context.Background(), args)
}

// RunContext コンテキストを指定してアプリケーションを実行
func (app *Application) RunContext(ctx context.Context, args []string) error {
	// 1. コマンドライン引数の解析
	if err := app.parseArgs(args); err != nil {
		return diag.Wrap(diag.UsageError, err, "parse arguments")
	}

	if app.config.ShowHelp {
		cli.PrintHelp()
		return nil
	}

	if app.config.SourcePath == "" {
		return diag.New(diag.UsageError, "find source file argument (see --help)")
	}

	// 2. ロガーの初期化
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 3. ビルド設定の読み込み
	if err := app.loadConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 4. ソースファイルの解決
	source, err := fileutil.ResolvePath(app.config.SourcePath)
	if err != nil {
		return diag.Wrap(diag.SourceIOError, err, "open source file %s", app.config.SourcePath)
	}
	app.log.Info("Source resolved", "path", source)

	// 5. コンパイル
	ir, err := app.compile(source)
	if err != nil {
		return err
	}

	// 6. ネイティブコンパイラの実行
	out := app.config.OutputPath
	if out == "" {
		out = fileutil.OutputPath(source)
	}
	if err := app.link(ctx, ir, out); err != nil {
		return err
	}

	app.log.Info("Build finished", "path", out)
	return nil
}

// parseArgs コマンドライン引数を解析
func (app *Application) parseArgs(args []string) error {
	cfg, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = cfg
	return nil
}

// initLogger ロガーを初期化
func (app *Application) initLogger() error {
	if err := logger.InitLoggerWithWriter(app.config.LogLevel, app.stderr); err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}

// loadConfig 設定ファイルを読み込み、コマンドラインの指定で上書きする
func (app *Application) loadConfig() error {
	build := config.Default()
	if app.config.ConfigPath != "" {
		loaded, err := config.Load(app.config.ConfigPath)
		if err != nil {
			return err
		}
		build = loaded
		app.log.Info("Config loaded", "path", app.config.ConfigPath)
	}

	if app.config.Compiler != "" {
		build.Toolchain.Compiler = app.config.Compiler
	}
	app.build = build

	app.log.Debug("Build settings",
		"module_id", build.Module.ID,
		"target_triple", build.Module.TargetTriple,
		"compiler", build.Toolchain.Compiler,
		"flags", build.Toolchain.Flags)
	return nil
}

// compile ソースファイルをIRに変換する。エラーは標準エラーに出力する
func (app *Application) compile(source string) (string, error) {
	res, errs := compiler.CompileFileWithOptions(source, compiler.CompileOptions{
		CollectErrors: app.config.CollectErrors,
		ModuleID:      app.build.Module.ID,
		TargetTriple:  app.build.Module.TargetTriple,
	})
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(app.stderr, err)
		}
		app.log.Error("Compilation failed", "path", source, "errors", len(errs))
		if len(errs) == 1 {
			return "", &ReportedError{Err: errs[0]}
		}
		return "", &ReportedError{Err: fmt.Errorf("compilation failed with %d errors", len(errs))}
	}

	app.log.Info("Compiled",
		"path", source,
		"instructions", len(res.Program.Instructions),
		"functions", res.Program.Functions.Len(),
		"ir_bytes", len(res.IR))
	app.log.Debug("Instructions generated", "instructions", formatOpCodesPreview(res.Program.Instructions, 10))
	return res.IR, nil
}

// formatOpCodesPreview 命令列のプレビューを生成（デバッグ用）
func formatOpCodesPreview(opcodes []opcode.OpCode, maxCount int) string {
	if len(opcodes) == 0 {
		return "[]"
	}

	count := len(opcodes)
	if count > maxCount {
		count = maxCount
	}

	parts := make([]string, count)
	for i := 0; i < count; i++ {
		parts[i] = opcodes[i].String()
	}

	result := strings.Join(parts, ", ")
	if len(opcodes) > maxCount {
		result += fmt.Sprintf(", ... (%d more)", len(opcodes)-maxCount)
	}
	return "[" + result + "]"
}

// link IRをスクラッチディレクトリに書き出し、ネイティブコンパイラで実行ファイルを生成する
func (app *Application) link(ctx context.Context, ir, out string) error {
	scratch, err := fileutil.NewScratch("trustc-*")
	if err != nil {
		return diag.Wrap(diag.SourceIOError, err, "create scratch directory")
	}
	defer func() {
		if err := scratch.Close(); err != nil {
			app.log.Warn("Failed to remove scratch directory", "error", err)
		}
	}()

	app.log.Debug("Scratch directory created", "path", scratch.Dir())

	irPath, err := scratch.WriteFile(irFileName, []byte(ir))
	if err != nil {
		return diag.Wrap(diag.SourceIOError, err, "write IR file")
	}
	app.log.Debug("IR written", "path", irPath)

	if app.config.EmitIR != "" {
		if err := os.WriteFile(app.config.EmitIR, []byte(ir), 0644); err != nil {
			return diag.Wrap(diag.SourceIOError, err, "write IR copy %s", app.config.EmitIR)
		}
		app.log.Info("IR saved", "path", app.config.EmitIR)
	}

	cc := toolchain.New(app.build.Toolchain.Compiler, app.build.Toolchain.Flags)
	cc.Stdout = app.stdout
	cc.Stderr = app.stderr
	app.log.Debug("Running native compiler", "compiler", cc.Path, "args", cc.Args(irPath, out))
	if err := cc.Build(ctx, irPath, out); err != nil {
		app.log.Error("Native compiler failed", "compiler", cc.Path, "error", err)
		return err
	}
	return nil
}
