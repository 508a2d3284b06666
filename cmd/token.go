package cmd

import (
	"fmt"

	pkgapp "github.com/haierkeys/objective-share-service/pkg/app"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type tokenFlags struct {
	config string
	uid    int64
	name   string
}

func init() {
	f := new(tokenFlags)

	var tokenCmd = &cobra.Command{
		Use:   "token --uid <owner uid> [--name <display name>] [-c config_file]",
		Short: "Mint an owner auth token. // 签发 owner 授权 Token。",
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.uid <= 0 {
				return errors.New("--uid must be a positive owner id")
			}
			cfg, err := loadCLIConfig(f.config)
			if err != nil {
				return err
			}

			// 签名密钥与服务端一致，需在同一台机器上执行
			tm := pkgapp.NewTokenManager(pkgapp.TokenConfig{
				SecretKey: cfg.Security.AuthTokenKey,
				Issuer:    pkgapp.DefaultTokenIssuer,
				Expiry:    cfg.GetTokenExpiry(),
			})
			token, err := tm.Generate(f.uid, f.name)
			if err != nil {
				return errors.Wrap(err, "generate token")
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	rootCmd.AddCommand(tokenCmd)
	fs := tokenCmd.Flags()
	fs.StringVarP(&f.config, "config", "c", "", "config file")
	fs.Int64Var(&f.uid, "uid", 0, "owner uid")
	fs.StringVar(&f.name, "name", "owner", "owner display name")
}
