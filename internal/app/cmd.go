package app

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandRun はパイプライン全体（クロール→差分→ドラフト→送出）を
	// 1回実行することを示す。
	CommandRun Command = "run"
	// CommandCrawl はクロールステップのみを実行することを示す。
	CommandCrawl Command = "crawl"
	// CommandDelta は差分計算ステップのみを実行することを示す。
	CommandDelta Command = "delta"
	// CommandDraft はドラフト生成ステップのみを実行することを示す。
	CommandDraft Command = "draft"
	// CommandDispatch は送出ステップのみを実行することを示す。
	CommandDispatch Command = "dispatch"
	// CommandServe は管理APIサーバーモードで起動することを示す。
	CommandServe Command = "serve"
	// CommandWorker は定期実行ワーカーモードで起動することを示す。
	CommandWorker Command = "worker"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand はコマンドライン引数からサブコマンドを解析する。
// 引数が空またはサポート外のコマンドの場合はCommandRunを返す。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandRun
	}

	switch args[0] {
	case "run":
		return CommandRun
	case "crawl":
		return CommandCrawl
	case "delta":
		return CommandDelta
	case "draft":
		return CommandDraft
	case "dispatch":
		return CommandDispatch
	case "serve":
		return CommandServe
	case "worker":
		return CommandWorker
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandRun
	}
}
