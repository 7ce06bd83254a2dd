package main

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lattice-dds/rtps/pkg/log"
	"github.com/lattice-dds/rtps/pkg/metrics"
	"github.com/lattice-dds/rtps/pkg/participant"
	"github.com/lattice-dds/rtps/pkg/rtps"
	"github.com/lattice-dds/rtps/pkg/transport"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rtpsd",
	Short: "rtpsd - a standalone RTPS/DDS participant daemon",
	Long: `rtpsd loads a participant profile, joins an RTPS domain over UDP,
discovers peers via SPDP/SEDP, and publishes/subscribes the topics its
config declares.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"rtpsd version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a participant from a config file",
	Long: `Run starts one RTPS participant: it binds the configured UDP
transport, joins the configured domain, creates every topic/writer/reader
the config declares, and serves /metrics and health endpoints until
interrupted.`,
	RunE: runParticipant,
}

func init() {
	runCmd.Flags().StringP("config", "f", "", "participant config YAML file (required)")
	_ = runCmd.MarkFlagRequired("config")
}

func runParticipant(cmd *cobra.Command, args []string) error {
	logLevel, _ := cmd.Flags().GetString("log-level")
	logJSON, _ := cmd.Flags().GetBool("log-json")
	log.Init(log.Config{Level: log.Level(logLevel), JSONOutput: logJSON})

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	fmt.Println("Starting rtpsd...")
	fmt.Printf("  Domain: %d\n", cfg.DomainId)
	if cfg.DomainTag != "" {
		fmt.Printf("  Domain tag: %s\n", cfg.DomainTag)
	}
	fmt.Printf("  Unicast: %s\n", cfg.Transport.UnicastAddr)
	if cfg.Transport.MulticastGroup != "" {
		fmt.Printf("  Multicast: %s\n", cfg.Transport.MulticastGroup)
	}

	udp, err := transport.NewUDPTransport(transport.UDPConfig{
		UnicastAddr:    cfg.Transport.UnicastAddr,
		MulticastGroup: cfg.Transport.MulticastGroup,
	})
	if err != nil {
		return fmt.Errorf("failed to start transport: %v", err)
	}

	guidPrefix, err := guidPrefixFromConfig(cfg.GuidPrefix)
	if err != nil {
		return fmt.Errorf("invalid guidPrefix: %v", err)
	}

	spdpPeriod := time.Duration(cfg.SPDPPeriodMs) * time.Millisecond
	maintenancePeriod := time.Duration(cfg.MaintenancePeriodMs) * time.Millisecond

	p, err := participant.New(participant.Config{
		GuidPrefix:        guidPrefix,
		DomainId:          cfg.DomainId,
		DomainTag:         cfg.DomainTag,
		Transport:         udp,
		SPDPPeriod:        spdpPeriod,
		MaintenancePeriod: maintenancePeriod,
	})
	if err != nil {
		return fmt.Errorf("failed to create participant: %v", err)
	}

	p.SetParticipantListener(logListener{logger: log.WithComponent("status")})

	if err := p.Start(); err != nil {
		return fmt.Errorf("failed to start participant: %v", err)
	}
	fmt.Println("✓ Participant started")

	if err := applyTopics(p, cfg); err != nil {
		_ = p.Stop()
		return fmt.Errorf("failed to apply topics: %v", err)
	}

	metrics.SetVersion(Version)
	metrics.RegisterComponent("transport", true, "listening")
	metrics.RegisterComponent("participant", true, "running")

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/health", metrics.HealthHandler())
	mux.Handle("/ready", metrics.ReadyHandler())
	mux.Handle("/live", metrics.LivenessHandler())
	server := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("metrics server error: %v", err)
		}
	}()
	fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Metrics.Addr)
	fmt.Printf("✓ Health endpoints: http://%s/health, /ready, /live\n", cfg.Metrics.Addr)
	fmt.Println()
	fmt.Println("Participant is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		fmt.Println("\nShutting down...")
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
	}

	_ = server.Close()
	if err := p.Stop(); err != nil {
		return fmt.Errorf("failed to stop participant: %v", err)
	}

	fmt.Println("✓ Shutdown complete")
	return nil
}

// guidPrefixFromConfig parses a hex-encoded 24-character GuidPrefix, or
// mints a random one from a uuid when the config leaves it blank —
// cuemby-warren mints node/service/task ids from google/uuid the same
// way, just at a different layer.
func guidPrefixFromConfig(hexPrefix string) (rtps.GuidPrefix, error) {
	var prefix rtps.GuidPrefix
	if hexPrefix == "" {
		id := uuid.New()
		copy(prefix[:], id[:len(prefix)])
		return prefix, nil
	}
	decoded, err := hex.DecodeString(hexPrefix)
	if err != nil {
		return prefix, fmt.Errorf("decoding hex: %w", err)
	}
	if len(decoded) != len(prefix) {
		return prefix, fmt.Errorf("expected %d bytes, got %d", len(prefix), len(decoded))
	}
	copy(prefix[:], decoded)
	return prefix, nil
}
