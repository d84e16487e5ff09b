package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/airvent/subscription/internal/address"
	"github.com/airvent/subscription/internal/client/client"
	"github.com/airvent/subscription/internal/common"
	"github.com/airvent/subscription/internal/filex"
	"github.com/airvent/subscription/internal/identity"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the airvent command tree around a. Persistent
// flags write straight into a's config, so values loaded from JSON act as
// flag defaults.
func NewRootCommand(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "airvent",
		Short:         "AirVent subscription client",
		Long:          `Manage AirVent subscription records: create, earn points, upgrade and downgrade.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.output != outputText && a.output != outputJSON {
				return fmt.Errorf("unknown output format %q (want text or json)", a.output)
			}
			return nil
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.out)

	pf := root.PersistentFlags()
	// Read by the config package before cobra runs; declared so it parses.
	pf.StringP("config", "c", "", "path to JSON config file")
	pf.StringVarP(&a.config.ServerEndpointAddr, "server", "a", a.config.ServerEndpointAddr, "subscription service address (host:port)")
	pf.StringVarP(&a.config.KeyFile, "key-file", "k", a.config.KeyFile, "path to the encrypted signing key")
	pf.DurationVar(&a.config.RequestTimeout, "timeout", a.config.RequestTimeout, "per-request timeout")
	pf.DurationVar(&a.config.ProofValidityDuration, "proof-ttl", a.config.ProofValidityDuration, "lifetime of signed proofs")
	pf.StringVarP(&a.output, "output", "o", a.output, "output format: text or json")

	root.AddCommand(
		newKeygenCmd(a),
		newAddressCmd(a),
		newSignCmd(a),
		newCreateCmd(a),
		newEarnCmd(a),
		newUpgradeCmd(a),
		newDowngradeCmd(a),
		newShowCmd(a),
		newExistsCmd(a),
		newPingCmd(a),
	)
	return root
}

func newKeygenCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new signing key",
		Example: `  # Prompt for the passphrase
  airvent keygen -k ~/.airvent/key.json

  # Passphrase from the environment
  AIRVENT_KEY_PASSPHRASE=secret airvent keygen`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := GetPassphrase(a.out, true)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pass)

			if err := filex.EnsureParentDir(a.config.KeyFile); err != nil {
				return err
			}
			kp, err := identity.GenerateKeypair()
			if err != nil {
				return err
			}
			if err := identity.SaveKeyFile(a.config.KeyFile, kp, pass); err != nil {
				return err
			}

			if a.output == outputJSON {
				return a.printJSON(map[string]string{"identity": kp.Identity.String(), "key_file": a.config.KeyFile})
			}
			fmt.Fprintf(a.out, "Identity: %s\nKey file: %s\n", kp.Identity, a.config.KeyFile)
			return nil
		},
	}
}

func newAddressCmd(a *App) *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Print the subscription address for an owner",
		Long:  `Derive the subscription record address offline. Defaults to the identity in the key file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.resolveOwner(owner)
			if err != nil {
				return err
			}
			addr, bump, err := address.Find(id)
			if err != nil {
				return err
			}

			if a.output == outputJSON {
				return a.printJSON(struct {
					Owner   string `json:"owner"`
					Address string `json:"address"`
					Bump    uint8  `json:"bump"`
				}{id.String(), addr.String(), bump})
			}
			fmt.Fprintf(a.out, "Owner:   %s\nAddress: %s\nBump:    %d\n", id, addr, bump)
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner identity (base58)")
	return cmd
}

// buildIntent assembles the intent a proof will cover. local is the key
// file identity and fills whichever party the signer plays by default.
func buildIntent(op string, local identity.Identity, owner, authority string, points uint64, serial string) (identity.Intent, error) {
	parse := func(s string, fallback identity.Identity) (identity.Identity, error) {
		if s == "" {
			return fallback, nil
		}
		return identity.Parse(s)
	}

	switch identity.Operation(op) {
	case identity.OpCreate:
		if owner == "" {
			return identity.Intent{}, errors.New("--owner is required for create")
		}
		o, err := identity.Parse(owner)
		if err != nil {
			return identity.Intent{}, err
		}
		auth, err := parse(authority, local)
		if err != nil {
			return identity.Intent{}, err
		}
		return identity.CreateIntent(o, auth), nil
	case identity.OpEarn:
		if owner == "" {
			return identity.Intent{}, errors.New("--owner is required for earn")
		}
		o, err := identity.Parse(owner)
		if err != nil {
			return identity.Intent{}, err
		}
		return identity.EarnIntent(o, points), nil
	case identity.OpUpgrade:
		o, err := parse(owner, local)
		if err != nil {
			return identity.Intent{}, err
		}
		return identity.UpgradeIntent(o, serial), nil
	case identity.OpDowngrade:
		o, err := parse(owner, local)
		if err != nil {
			return identity.Intent{}, err
		}
		return identity.DowngradeIntent(o), nil
	default:
		return identity.Intent{}, fmt.Errorf("unknown operation %q (want create, earn, upgrade or downgrade)", op)
	}
}

func newSignCmd(a *App) *cobra.Command {
	var (
		owner     string
		authority string
		points    uint64
		serial    string
	)
	cmd := &cobra.Command{
		Use:   "sign <create|earn|upgrade|downgrade>",
		Short: "Sign a proof for someone else to submit",
		Example: `  # Authority approves a new subscription for an owner
  airvent sign create --owner 9xQe...

  # Authority approves a points award
  airvent sign earn --owner 9xQe... --points 50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := a.loadKey()
			if err != nil {
				return err
			}
			intent, err := buildIntent(args[0], kp.Identity, owner, authority, points, serial)
			if err != nil {
				return err
			}
			proof, err := a.sign(kp, intent)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, proof)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&owner, "owner", "", "owner identity (base58)")
	f.StringVar(&authority, "authority", "", "authority identity for create (defaults to the key file)")
	f.Uint64Var(&points, "points", 0, "points amount for earn")
	f.StringVar(&serial, "serial", "", "hardware serial for upgrade")
	return cmd
}

func newCreateCmd(a *App) *cobra.Command {
	var (
		authority      string
		authorityProof string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a Free subscription for the key file identity",
		Long:  `Open a Free subscription. Needs a create proof signed by the authority (see "airvent sign create").`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := identity.Parse(authority)
			if err != nil {
				return fmt.Errorf("--authority: %w", err)
			}
			if authorityProof == "" {
				authorityProof, err = GetSimpleText(a.in, "Paste the authority proof", a.out)
				if err != nil {
					return err
				}
			}

			kp, err := a.loadKey()
			if err != nil {
				return err
			}
			userProof, err := a.sign(kp, identity.CreateIntent(kp.Identity, auth))
			if err != nil {
				return err
			}

			return a.withClient(func(c client.Client) error {
				st, err := c.Create(cmd.Context(), kp.Identity, auth, userProof, authorityProof)
				if err != nil {
					return err
				}
				return a.printState(st)
			})
		},
	}
	cmd.Flags().StringVar(&authority, "authority", "", "authority identity (base58)")
	cmd.Flags().StringVar(&authorityProof, "authority-proof", "", "create proof signed by the authority")
	_ = cmd.MarkFlagRequired("authority")
	return cmd
}

func newEarnCmd(a *App) *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "earn <points>",
		Short: "Award off-chain points; the key file must hold the authority key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid points %q: %w", args[0], err)
			}
			o, err := identity.Parse(owner)
			if err != nil {
				return fmt.Errorf("--owner: %w", err)
			}

			kp, err := a.loadKey()
			if err != nil {
				return err
			}
			proof, err := a.sign(kp, identity.EarnIntent(o, points))
			if err != nil {
				return err
			}

			return a.withClient(func(c client.Client) error {
				st, err := c.Earn(cmd.Context(), o, points, proof)
				if err != nil {
					return err
				}
				return a.printState(st)
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner identity (base58)")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func newUpgradeCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade <hardware-serial>",
		Short: "Bind a hardware serial and become Premium",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			serial := args[0]
			kp, err := a.loadKey()
			if err != nil {
				return err
			}
			proof, err := a.sign(kp, identity.UpgradeIntent(kp.Identity, serial))
			if err != nil {
				return err
			}

			return a.withClient(func(c client.Client) error {
				st, err := c.Upgrade(cmd.Context(), kp.Identity, serial, proof)
				if err != nil {
					return err
				}
				return a.printState(st)
			})
		},
	}
}

func newDowngradeCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "downgrade",
		Short: "Clear the hardware binding and return to Free",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := a.loadKey()
			if err != nil {
				return err
			}
			proof, err := a.sign(kp, identity.DowngradeIntent(kp.Identity))
			if err != nil {
				return err
			}

			return a.withClient(func(c client.Client) error {
				st, err := c.Downgrade(cmd.Context(), kp.Identity, proof)
				if err != nil {
					return err
				}
				return a.printState(st)
			})
		},
	}
}

func newShowCmd(a *App) *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a subscription record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.resolveOwner(owner)
			if err != nil {
				return err
			}
			return a.withClient(func(c client.Client) error {
				st, err := c.Get(cmd.Context(), o)
				if err != nil {
					return err
				}
				return a.printState(st)
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner identity (defaults to the key file)")
	return cmd
}

func newExistsCmd(a *App) *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "exists",
		Short: "Report whether an owner has a subscription",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.resolveOwner(owner)
			if err != nil {
				return err
			}
			return a.withClient(func(c client.Client) error {
				ok, err := c.Exists(cmd.Context(), o)
				if err != nil {
					return err
				}
				if a.output == outputJSON {
					return a.printJSON(map[string]bool{"exists": ok})
				}
				fmt.Fprintln(a.out, ok)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner identity (defaults to the key file)")
	return cmd
}

func newPingCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the subscription service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(func(c client.Client) error {
				if err := c.Ping(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "OK")
				return nil
			})
		},
	}
}
