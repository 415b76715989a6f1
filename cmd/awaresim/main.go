// Package main 提供 awaresim 命令行入口
//
// awaresim 使用打印型 native 层驱动 go-aware 服务，重放一段固定脚本，
// 输出所有 native 请求、客户端通知以及最终的状态转储。
// 指定 --metrics-addr 时在脚本结束后继续提供 /metrics，直到收到退出信号。
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	aware "github.com/dep2p/go-aware"
	"github.com/dep2p/go-aware/config"
	"github.com/dep2p/go-aware/pkg/lib/log"
	"github.com/dep2p/go-aware/pkg/types"
)

var logger = log.Logger("aware/cmd")

var (
	configFile  = pflag.StringP("config", "c", "", "配置文件路径（.json / .yaml）")
	mode        = pflag.StringP("mode", "m", "subscribe", "会话模式 (publish/subscribe)")
	service     = pflag.String("service", "aware.sim", "服务名")
	instanceID  = pflag.Int("instance-id", 7, "模拟对端的 InstanceID")
	mac         = pflag.String("mac", "00:11:22:33:44:aa", "模拟对端的硬件地址")
	rangeMm     = pflag.Int("range-mm", 0, "匹配携带的测距结果（毫米），0 表示不测距")
	rejectSends = pflag.Bool("reject-sends", false, "native 层同步拒绝所有发送")
	verbose     = pflag.BoolP("verbose", "v", false, "打开 verbose 日志")
	logLevel    = pflag.String("log-level", "", "日志级别，覆盖配置文件")
	metricsAddr = pflag.String("metrics-addr", "", "脚本结束后在该地址提供 /metrics")
	printConfig = pflag.Bool("print-config", false, "输出合并后的配置（JSON）并退出")
	showVersion = pflag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	pflag.Parse()

	if *showVersion {
		fmt.Println(aware.VersionInfo())
		return nil
	}

	cfg, sc, err := buildConfig()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}
	if *printConfig {
		data, err := cfg.ToJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	native := &printNative{w: os.Stdout, rejectSends: sc.rejectSends}
	svc, err := aware.New(
		aware.WithConfig(cfg),
		aware.WithNativeAPI(native),
		aware.WithLogOutput(os.Stderr),
	)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := svc.Stop(context.Background()); err != nil {
			logger.Warn("停止服务失败", "error", err)
		}
	}()

	if err := runScenario(svc.Manager(), sc, &printClient{w: os.Stdout}, os.Stdout); err != nil {
		return err
	}

	if *metricsAddr == "" {
		return nil
	}
	return serveMetrics(ctx, svc, *metricsAddr)
}

// buildConfig 合并配置文件与命令行参数
func buildConfig() (*config.Config, scenario, error) {
	cfg := config.NewConfig()
	if *configFile != "" {
		loaded, err := config.LoadFile(*configFile)
		if err != nil {
			return nil, scenario{}, err
		}
		cfg = loaded
	}
	if *verbose {
		cfg.Session.VerboseLogging = true
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *metricsAddr != "" {
		cfg.Metrics.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, scenario{}, err
	}

	m, err := types.ParseMode(*mode)
	if err != nil {
		return nil, scenario{}, err
	}
	addr, err := net.ParseMAC(*mac)
	if err != nil {
		return nil, scenario{}, fmt.Errorf("invalid --mac: %w", err)
	}

	return cfg, scenario{
		mode:        m,
		service:     *service,
		instanceID:  types.InstanceID(*instanceID),
		addr:        addr,
		rangeMm:     *rangeMm,
		rejectSends: *rejectSends,
	}, nil
}

// serveMetrics 提供 /metrics 直到 ctx 结束
func serveMetrics(ctx context.Context, svc *aware.Service, addr string) error {
	h := svc.MetricsHandler()
	if h == nil {
		return errors.New("metrics disabled")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("指标服务已启动", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
