// Package mcp は MCP サーバー定義ファイル（{"mcpServers": {...}}）を読み込み、
// スキーマ検証して型付きのサーバーエントリに変換する。
package mcp

// Transport はサーバーエントリの接続方式を識別する。
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportHTTP  Transport = "http"
	TransportSSE   Transport = "sse"
)

// ServerEntry は stdio / http / sse のいずれかのサーバー定義。
// 実装は StdioServer, HTTPServer, SSEServer の 3 つに限られる。
type ServerEntry interface {
	Transport() Transport
	isServerEntry()
}

// StdioServer はパイプ経由で起動するサーバー定義
type StdioServer struct {
	// Command は起動するコマンド（空文字列は不可）
	Command string `mapstructure:"command"`
	// Args はコマンドライン引数
	Args []string `mapstructure:"args"`
	// Env はサーバーに渡す環境変数
	Env map[string]string `mapstructure:"env"`
}

// RemoteEndpoint は HTTP / SSE サーバーで共通のフィールド
type RemoteEndpoint struct {
	// URL は接続先（スキームとホストを含む絶対 URL）
	URL string `mapstructure:"url"`
	// Headers はリクエストに付与するヘッダー
	Headers map[string]string `mapstructure:"headers"`
	// Env はサーバーに渡す環境変数
	Env map[string]string `mapstructure:"env"`
}

// HTTPServer は HTTP エンドポイントのサーバー定義
type HTTPServer struct {
	RemoteEndpoint `mapstructure:",squash"`
}

// SSEServer は Server-Sent Events エンドポイントのサーバー定義
type SSEServer struct {
	RemoteEndpoint `mapstructure:",squash"`
}

func (StdioServer) Transport() Transport { return TransportStdio }
func (HTTPServer) Transport() Transport  { return TransportHTTP }
func (SSEServer) Transport() Transport   { return TransportSSE }

func (StdioServer) isServerEntry() {}
func (HTTPServer) isServerEntry()  {}
func (SSEServer) isServerEntry()   {}

// Server は名前付きのサーバーエントリ
type Server struct {
	Name  string
	Entry ServerEntry
}

// Config は検証済みの MCP 設定ファイル
type Config struct {
	// Description は任意の説明文
	Description string
	// Servers は mcpServers の各エントリ（ファイル内の宣言順）
	Servers []Server
}

// ServerNames はサーバー名を宣言順で返す。
func (c *Config) ServerNames() []string {
	names := make([]string, len(c.Servers))
	for i, s := range c.Servers {
		names[i] = s.Name
	}
	return names
}
