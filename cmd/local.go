package cmd

import (
	"fmt"
	"io"

	"github.com/haierkeys/objective-share-service/internal/dao"
	"github.com/haierkeys/objective-share-service/internal/domain"
	"github.com/haierkeys/objective-share-service/internal/service"
	pkgapp "github.com/haierkeys/objective-share-service/pkg/app"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

const localWarning = "WARNING: the local capability store is not an access-control boundary. Anyone who can read or edit the store file can copy or forge tokens."

type localFlags struct {
	config string
	path   string
}

// newLocalStore 按配置创建本地能力存储，--path 优先于 local-share.path
func newLocalStore(f *localFlags) (*service.LocalShareLinkStore, error) {
	cfg, err := loadCLIConfig(f.config)
	if err != nil {
		return nil, err
	}
	path := cfg.LocalShare.Path
	if f.path != "" {
		path = f.path
	}
	codec, err := pkgapp.NewTokenCodec(cfg.Share.TokenCodec, cfg.Share.TokenLength)
	if err != nil {
		return nil, err
	}
	return service.NewLocalShareLinkStore(dao.NewLocalCapabilityRepository(path), codec, bootstrapLogger), nil
}

func printLocalWarning(w io.Writer) {
	fmt.Fprintln(w, localWarning)
}

func init() {
	f := new(localFlags)

	var localCmd = &cobra.Command{
		Use:   "local",
		Short: "Manage the local (non-authoritative) capability store. // 管理本地能力存储。",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			printLocalWarning(cmd.ErrOrStderr())
		},
	}

	issueCmd := &cobra.Command{
		Use:   "issue <resource-id> <viewer|editor>",
		Short: "Get or create the token of a resource role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domain.ParseRole(args[1])
			if err != nil {
				return err
			}
			store, err := newLocalStore(f)
			if err != nil {
				return err
			}
			token, err := store.GetOrCreateToken(cmd.Context(), args[0], role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	acceptCmd := &cobra.Command{
		Use:   "accept <resource-id> <viewer|editor> <token>",
		Short: "Record a token as accepted when it matches the current slot",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domain.ParseRole(args[1])
			if err != nil {
				return err
			}
			store, err := newLocalStore(f)
			if err != nil {
				return err
			}
			ok, err := store.AcceptShare(cmd.Context(), args[2], role, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}

	revokeCmd := &cobra.Command{
		Use:   "revoke <resource-id> <token>",
		Short: "Clear the slot holding token and drop it from accepted",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newLocalStore(f)
			if err != nil {
				return err
			}
			return store.RevokeShare(cmd.Context(), args[0], args[1])
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <resource-id>",
		Short: "Print the stored record of a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newLocalStore(f)
			if err != nil {
				return err
			}
			rec, err := store.Show(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if rec == nil {
				rec = &domain.LocalCapability{}
			}
			out, err := sonic.ConfigStd.MarshalIndent(rec, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	localCmd.AddCommand(issueCmd, acceptCmd, revokeCmd, showCmd)
	rootCmd.AddCommand(localCmd)

	pfs := localCmd.PersistentFlags()
	pfs.StringVarP(&f.config, "config", "c", "", "config file")
	pfs.StringVar(&f.path, "path", "", "store file, overrides local-share.path")
}
