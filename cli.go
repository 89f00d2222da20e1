package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"charm-feedback-tui/chain"
	"charm-feedback-tui/config"
	"charm-feedback-tui/contract"
	"charm-feedback-tui/feedback"
	"charm-feedback-tui/rpc"
	"charm-feedback-tui/session"
	"charm-feedback-tui/wallet"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	rpcFlag      string
	keystoreFlag string
	assumeYes    bool

	appCtx *appContext
)

// appContext is what every command shares once flags and env are read
type appContext struct {
	cfg       config.Config
	keys      wallet.Keyring // nil without FEEDBACK_PRIVATE_KEYS or a keystore
	logger    *log.Logger
	formatter feedback.Formatter
}

func Execute() error {
	root := &cobra.Command{
		Use:          "charm-feedback",
		Short:        "Decentralized feedback board on Ethereum",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			e, err := config.ParseEnv()
			if err != nil {
				return err
			}
			if rpcFlag != "" {
				e.RPCURL = rpcFlag
			}
			if keystoreFlag != "" {
				e.Keystore = keystoreFlag
			}

			if configPath == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				configPath = filepath.Join(dir, ".charm-feedback-config.json")
			}
			cfg, err := config.WithEnv(config.LoadOrCreate(configPath), e)
			if err != nil {
				return err
			}

			logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
				ReportTimestamp: true,
				TimeFormat:      "15:04:05",
				Prefix:          "feedback",
			})
			level, err := log.ParseLevel(e.LogLevel)
			if err != nil {
				return fmt.Errorf("FEEDBACK_LOG_LEVEL: %w", err)
			}
			logger.SetLevel(level)

			keys, err := openKeys(cfg, e)
			if err != nil {
				return err
			}

			appCtx = &appContext{
				cfg:       cfg,
				keys:      keys,
				logger:    logger,
				formatter: feedback.NewFormatter(feedback.ParseLocale(e.LocaleName()), nil),
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.charm-feedback-config.json)")
	root.PersistentFlags().StringVar(&rpcFlag, "rpc", "", "RPC endpoint, overrides ETH_RPC_URL")
	root.PersistentFlags().StringVar(&keystoreFlag, "keystore", "", "keystore directory, overrides FEEDBACK_KEYSTORE")

	root.AddCommand(listCmd(), countCmd(), showCmd(), submitCmd())
	return root.Execute()
}

// openKeys loads the wallet keys. Raw keys win over a keystore.
func openKeys(cfg config.Config, e config.Env) (wallet.Keyring, error) {
	if len(e.PrivateKeys) > 0 {
		keys, err := wallet.ParsePrivateKeys(e.PrivateKeys)
		if err != nil {
			return nil, fmt.Errorf("FEEDBACK_PRIVATE_KEYS: %w", err)
		}
		return keys, nil
	}
	if cfg.Keystore != "" {
		keys, err := wallet.OpenKeystore(cfg.Keystore, e.Password)
		if err != nil {
			return nil, fmt.Errorf("keystore: %w", err)
		}
		return keys, nil
	}
	return nil, nil
}

func runTUI() error {
	var provider wallet.Provider
	var bridge *approvalBridge
	if appCtx.keys != nil {
		approve := wallet.ApproveFunc(wallet.AutoApprove)
		if !appCtx.cfg.AutoApprove {
			bridge = newApprovalBridge()
			approve = bridge.Approve
		}
		provider = wallet.NewLocal(nil, appCtx.keys, approve)
	}

	m := newModel(appDeps{
		cfg:        appCtx.cfg,
		configPath: configPath,
		provider:   provider,
		approvals:  bridge,
		formatter:  appCtx.formatter,
	})
	p := tea.NewProgram(&m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// -------------------- READ COMMANDS --------------------

// reader connects to the active node and binds the deployment of its chain
func reader(ctx context.Context) (*contract.Binding, *rpc.Client, error) {
	endpoint, ok := appCtx.cfg.ActiveRPC()
	if !ok {
		return nil, nil, errors.New("no RPC endpoint configured, use --rpc or ETH_RPC_URL")
	}
	result := rpc.Connect(endpoint.URL)
	if result.Error != nil {
		return nil, nil, result.Error
	}
	client := result.Client

	id, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("chain id: %w", err)
	}
	dep, err := contract.Find(appCtx.cfg.ContractDeployments(), id.Uint64())
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	binding, err := contract.NewReader(dep.Address, client.Client)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	appCtx.logger.Debug("reading feedback", "chain", chain.NetworkFor(id).Name, "contract", dep.Address.Hex())
	return binding, client, nil
}

func printEntry(w io.Writer, i int, e feedback.Formatted) {
	fmt.Fprintf(w, "#%d %s  %s (%s)\n    %s\n", i, e.ShortAddress, e.Timestamp, e.Ago(), e.Message)
}

// list: print every feedback entry
func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print all feedback stored in the contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), readTimeout)
			defer cancel()

			binding, client, err := reader(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			entries, err := feedback.Load(ctx, binding, appCtx.formatter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No feedback yet")
				return nil
			}
			for i, e := range entries {
				printEntry(out, i, e)
			}
			return nil
		},
	}
}

// count: print the number of entries
func countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of feedback entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), readTimeout)
			defer cancel()

			binding, client, err := reader(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			n, err := binding.GetFeedbackCount(ctx)
			if err != nil {
				return fmt.Errorf("%w: %w", feedback.ErrNetworkRead, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), n.String())
			return nil
		},
	}
}

// show <index>: print one entry
func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <index>",
		Short: "Print the feedback entry at index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), readTimeout)
			defer cancel()

			binding, client, err := reader(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			e, err := binding.GetFeedbackByIndex(ctx, new(big.Int).SetUint64(idx))
			if err != nil {
				return fmt.Errorf("%w: %w", feedback.ErrNetworkRead, err)
			}
			printEntry(cmd.OutOrStdout(), int(idx), appCtx.formatter.Format(e))
			return nil
		},
	}
}

// -------------------- WRITE COMMANDS --------------------

// confirmInTerminal asks for consent on the terminal
func confirmInTerminal(ctx context.Context, a wallet.Approval) bool {
	ok := false
	title, description := approvalText(a)
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Approve").
				Negative("Reject").
				Value(&ok),
		),
	).WithTheme(huh.ThemeCatppuccin()).RunWithContext(ctx)
	return err == nil && ok
}

// submit <message>: sign and send one entry through the local wallet
func submitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit <message>",
		Short: "Submit feedback from the first wallet account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if appCtx.keys == nil {
				return fmt.Errorf("%w: set FEEDBACK_PRIVATE_KEYS or FEEDBACK_KEYSTORE", wallet.ErrNoProvider)
			}
			endpoint, ok := appCtx.cfg.ActiveRPC()
			if !ok {
				return errors.New("no RPC endpoint configured, use --rpc or ETH_RPC_URL")
			}
			result := rpc.Connect(endpoint.URL)
			if result.Error != nil {
				return result.Error
			}
			defer result.Client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), submitTimeout)
			defer cancel()

			approve := confirmInTerminal
			if assumeYes || appCtx.cfg.AutoApprove {
				approve = wallet.AutoApprove
			}
			local := wallet.NewLocal(result.Client.Upstream(), appCtx.keys, approve)
			conn := chain.NewConnection(local)

			accounts, err := conn.RequestAccounts(ctx)
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				return wallet.ErrNoAccounts
			}
			bound, err := session.ContractDeriver{Conn: conn, Deployments: appCtx.cfg.ContractDeployments()}.Derive(ctx, accounts[0])
			if err != nil {
				return err
			}

			appCtx.logger.Info("submitting", "from", accounts[0].Hex(), "chain", bound.Signer.ChainID())
			start := time.Now()
			res, err := feedback.Submit(ctx, bound.Contract, args[0])
			if err != nil {
				return err
			}
			appCtx.logger.Info("included", "tx", res.Tx.Hash().Hex(), "block", res.Receipt.BlockNumber, "took", time.Since(start).Round(time.Millisecond))
			fmt.Fprintln(cmd.OutOrStdout(), res.Tx.Hash().Hex())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "approve wallet prompts without asking")
	return cmd
}
