package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"

	"synnergy-network/internal/testutil"
)

func TestLoadConfigSandboxDefault(t *testing.T) {
	sb, err := testutil.NewSandbox()
	if err != nil {
		t.Fatalf("NewSandbox failed: %v", err)
	}
	defer sb.Cleanup()

	if err := os.Mkdir(sb.Path("config"), 0700); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	data := []byte("network:\n  api_listen_addr: :8090\nswap:\n  default_proof_mode: BlockSigs\n  signature_deadline_sec: 600\n")
	if err := sb.WriteFile("config/default.yaml", data, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	defer os.Chdir(wd)
	viper.Reset()

	if err := os.Chdir(sb.Root); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	LoadConfig("")

	if AppConfig.Network.APIListenAddr != ":8090" {
		t.Fatalf("expected api listen addr :8090, got %s", AppConfig.Network.APIListenAddr)
	}
	if AppConfig.Swap.DefaultProofMode != "BlockSigs" {
		t.Fatalf("expected default proof mode BlockSigs, got %s", AppConfig.Swap.DefaultProofMode)
	}
	if AppConfig.Swap.SignatureDeadlineSec != 600 {
		t.Fatalf("expected signature deadline 600, got %d", AppConfig.Swap.SignatureDeadlineSec)
	}
}

func TestLoadConfigSandboxOverride(t *testing.T) {
	sb, err := testutil.NewSandbox()
	if err != nil {
		t.Fatalf("NewSandbox failed: %v", err)
	}
	defer sb.Cleanup()

	if err := os.Mkdir(sb.Path("config"), 0700); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	base := []byte("swap:\n  default_proof_mode: BlockSigs\n  signature_deadline_sec: 600\n")
	if err := sb.WriteFile("config/default.yaml", base, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	override := []byte("swap:\n  default_proof_mode: NotarySigs\n")
	if err := sb.WriteFile("config/staging.yaml", override, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	defer os.Chdir(wd)
	viper.Reset()

	if err := os.Chdir(sb.Root); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	LoadConfig("staging")

	if AppConfig.Swap.DefaultProofMode != "NotarySigs" {
		t.Fatalf("expected override default proof mode NotarySigs, got %s", AppConfig.Swap.DefaultProofMode)
	}
	if AppConfig.Swap.SignatureDeadlineSec != 600 {
		t.Fatalf("expected base signature deadline 600 to survive merge, got %d", AppConfig.Swap.SignatureDeadlineSec)
	}
}
