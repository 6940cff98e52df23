// cmd/cli/swap.go – Cobra CLI for the cross-ledger atomic swap coordinator
// -----------------------------------------------------------------
// Layout of this file
//   - Middleware                 – bootstraps the draft-tx store and swap machine
//   - Controller                 – thin wrapper around core.SwapMachine
//   - CLI command declarations   – quick reference at the top
//   - Consolidation & export     – all sub-commands attached to root `swap`
//
// Example usage once registered in the main CLI:
//
//	$ synnergy swap draft intent.json 0xRecipient 0xNotary 2 1700000000 0xCharlie 0xBob
//	$ synnergy swap sign <swap_id> 0xOwner
//	$ synnergy swap get <swap_id>
//	$ synnergy swap collect-proofs <swap_id> BlockSigs 42 0xRoot sig1,sig2
//	$ synnergy swap unlock <swap_id> BlockSigs 42 0
//
// -----------------------------------------------------------------
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	core "synnergy-network/core" // adjust to go.mod root
)

//---------------------------------------------------------------------
// Middleware – executed for every ~swap command
//---------------------------------------------------------------------

var (
	swapMachine *core.SwapMachine
	swapDrafts  *core.DraftTxService
	swapOnce    sync.Once
)

func ensureSwapInitialised(cmd *cobra.Command, _ []string) error {
	swapOnce.Do(func() {
		dir := viper.GetString("storage.draft_store_dir")
		var store core.KVStore
		if dir != "" {
			_ = os.MkdirAll(dir, 0o700)
			store = core.NewFileStore(dir)
		} else {
			store = core.NewInMemoryStore()
		}
		swapDrafts = core.NewDraftTxService(store)
		swapMachine = core.NewSwapMachine(swapDrafts, cliRemoteRPC{}, cliLocalLedger{})
	})
	if swapMachine == nil {
		return fmt.Errorf("swap machine not initialised")
	}
	return nil
}

//---------------------------------------------------------------------
// Controller – user-facing façade
//---------------------------------------------------------------------

type SwapController struct{}

func (c *SwapController) Draft(intent core.SwapIntent, asset core.AssetRef, recipient, notary core.Address, validators []core.Address, threshold uint64, deadline int64) (core.DraftSwapTx, error) {
	return swapMachine.Draft(cliCtx(), intent, asset, recipient, notary, validators, threshold, deadline)
}

func (c *SwapController) Sign(id core.SwapID, owner core.Address) (core.SignedDraftSwapTx, error) {
	return swapMachine.Sign(cliCtx(), id, owner)
}

func (c *SwapController) Get(id core.SwapID) (core.DraftSwapTx, error) {
	return swapDrafts.GetDraft(id)
}

func (c *SwapController) CollectProofs(id core.SwapID, assembler core.ProofAssembler, blockNumber uint64, root common.Hash) error {
	return swapMachine.CollectProofs(cliCtx(), id, assembler, blockNumber, root)
}

func (c *SwapController) Unlock(id core.SwapID, assembler core.ProofAssembler, blockNumber, txIndex uint64) (core.UnlockData, error) {
	return swapMachine.Unlock(cliCtx(), id, assembler, blockNumber, txIndex)
}

func (c *SwapController) Revert(id core.SwapID, assembler core.ProofAssembler, blockNumber, txIndex uint64) (core.RevertData, error) {
	return swapMachine.Revert(cliCtx(), id, assembler, blockNumber, txIndex)
}

//---------------------------------------------------------------------
// CLI command declarations – grouped for quick scan
//---------------------------------------------------------------------

var swapCmd = &cobra.Command{
	Use:               "swap",
	Short:             "Cross-ledger atomic swap coordination",
	PersistentPreRunE: ensureSwapInitialised,
}

// draft ------------------------------------------------------------------
var swapDraftCmd = &cobra.Command{
	Use:   "draft <intent.json> <recipient_addr> <notary_addr> <threshold> <deadline_unix> <validator_addr>...",
	Short: "Draft a new swap from a SwapIntent JSON file",
	Args:  cobra.MinimumNArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read intent file: %w", err)
		}
		var intent core.SwapIntent
		if err := json.Unmarshal(raw, &intent); err != nil {
			return fmt.Errorf("parse intent: %w", err)
		}
		recipient, err := core.ParseAddress(args[1])
		if err != nil {
			return err
		}
		notary, err := core.ParseAddress(args[2])
		if err != nil {
			return err
		}
		threshold, err := strconv.ParseUint(args[3], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid threshold: %w", err)
		}
		deadline, err := strconv.ParseInt(args[4], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid deadline: %w", err)
		}
		validators := make([]core.Address, 0, len(args)-5)
		for _, a := range args[5:] {
			addr, err := core.ParseAddress(a)
			if err != nil {
				return err
			}
			validators = append(validators, addr)
		}
		ctrl := &SwapController{}
		draft, err := ctrl.Draft(intent, core.AssetRef{}, recipient, notary, validators, threshold, deadline)
		if err != nil {
			return err
		}
		enc, _ := json.MarshalIndent(draft, "", "  ")
		fmt.Println(string(enc))
		return nil
	},
}

// sign ---------------------------------------------------------------------
var swapSignCmd = &cobra.Command{
	Use:   "sign <swap_id> <owner_addr>",
	Short: "Sign a drafted swap transaction as its owner",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := common.HexToHash(args[0])
		owner, err := core.ParseAddress(args[1])
		if err != nil {
			return err
		}
		ctrl := &SwapController{}
		signed, err := ctrl.Sign(id, owner)
		if err != nil {
			return err
		}
		enc, _ := json.MarshalIndent(signed, "", "  ")
		fmt.Println(string(enc))
		return nil
	},
}

// get ------------------------------------------------------------------------
var swapGetCmd = &cobra.Command{
	Use:   "get <swap_id>",
	Short: "Retrieve a swap's current draft state by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := common.HexToHash(args[0])
		ctrl := &SwapController{}
		draft, err := ctrl.Get(id)
		if err != nil {
			return err
		}
		enc, _ := json.MarshalIndent(draft, "", "  ")
		fmt.Println(string(enc))
		return nil
	},
}

// collect-proofs ---------------------------------------------------------
var swapCollectProofsCmd = &cobra.Command{
	Use:   "collect-proofs <swap_id> <BlockSigs|NotarySigs> <block_number> <receipts_root> <sig1,sig2,...>",
	Short: "Collect oracle/notary signatures toward the swap's threshold",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := common.HexToHash(args[0])
		blockNumber, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid block number: %w", err)
		}
		root := common.HexToHash(args[3])
		sigs := splitSignatures(args[4])
		assembler := assemblerFor(args[1], sigs, common.Hash{})
		ctrl := &SwapController{}
		if err := ctrl.CollectProofs(id, assembler, blockNumber, root); err != nil {
			return err
		}
		fmt.Println("proofs collected")
		return nil
	},
}

// unlock ---------------------------------------------------------------------
var swapUnlockCmd = &cobra.Command{
	Use:   "unlock <swap_id> <BlockSigs|NotarySigs> <block_number> <tx_index>",
	Short: "Unlock a swap whose claim event has been proven on the remote ledger",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := common.HexToHash(args[0])
		blockNumber, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid block number: %w", err)
		}
		txIndex, err := strconv.ParseUint(args[3], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid tx index: %w", err)
		}
		assembler := assemblerFor(args[1], nil, common.Hash{})
		ctrl := &SwapController{}
		data, err := ctrl.Unlock(id, assembler, blockNumber, txIndex)
		if err != nil {
			return err
		}
		enc, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(enc))
		return nil
	},
}

// revert -----------------------------------------------------------------
var swapRevertCmd = &cobra.Command{
	Use:   "revert <swap_id> <BlockSigs|NotarySigs> <block_number> <tx_index>",
	Short: "Revert a swap whose revert event has been proven on the remote ledger",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := common.HexToHash(args[0])
		blockNumber, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid block number: %w", err)
		}
		txIndex, err := strconv.ParseUint(args[3], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid tx index: %w", err)
		}
		assembler := assemblerFor(args[1], nil, common.Hash{})
		ctrl := &SwapController{}
		data, err := ctrl.Revert(id, assembler, blockNumber, txIndex)
		if err != nil {
			return err
		}
		enc, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(enc))
		return nil
	},
}

//---------------------------------------------------------------------
// helpers
//---------------------------------------------------------------------

func splitSignatures(raw string) [][]byte {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([][]byte, len(parts))
	for i, p := range parts {
		out[i] = []byte(p)
	}
	return out
}

func assemblerFor(mode string, sigs [][]byte, draftTxHash common.Hash) core.ProofAssembler {
	if core.ProofMode(mode) == core.ModeNotarySigs {
		return core.NotarySignatureAssembler{Notaries: sigs, DraftTxHash: draftTxHash}
	}
	return core.BlockSignatureAssembler{Oracles: sigs}
}

//---------------------------------------------------------------------
// Consolidation & export
//---------------------------------------------------------------------

func init() {
	swapCmd.AddCommand(swapDraftCmd)
	swapCmd.AddCommand(swapSignCmd)
	swapCmd.AddCommand(swapGetCmd)
	swapCmd.AddCommand(swapCollectProofsCmd)
	swapCmd.AddCommand(swapUnlockCmd)
	swapCmd.AddCommand(swapRevertCmd)
}

// Export for root-CLI import (rootCmd.AddCommand(cli.SwapCmd))
var SwapCmd = swapCmd
