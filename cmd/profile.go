package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/config"
	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/profile"
	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/rpc"
	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	profileReveal bool
	profileYes    bool
	addFlags      profileFlags
	editFlags     profileFlags
)

// profileFlags collects the editable profile fields from the command line.
type profileFlags struct {
	name         string
	description  string
	adminAddress string
	adminKey     string
	rpcURL       string
	toriiURL     string
	worldAddress string
	contracts    map[string]string
}

func (pf *profileFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&pf.name, "name", "", "profile name")
	fs.StringVar(&pf.description, "description", "", "free-form description")
	fs.StringVar(&pf.adminAddress, "admin-address", "", "admin account address (0x...)")
	fs.StringVar(&pf.adminKey, "admin-key", "", "admin account private key (0x...)")
	fs.StringVar(&pf.rpcURL, "rpc", "", "Starknet JSON-RPC URL")
	fs.StringVar(&pf.toriiURL, "torii", "", "Torii indexer URL")
	fs.StringVar(&pf.worldAddress, "world", "", "world contract address (0x...)")
	fs.StringToStringVar(&pf.contracts, "contract", nil, "contract address as key=0x... (repeatable)")
}

// fields builds the full field set for a new profile.
func (pf *profileFlags) fields() profile.Fields {
	return profile.Fields{
		Name:            pf.name,
		Description:     pf.description,
		AdminAddress:    pf.adminAddress,
		AdminPrivateKey: pf.adminKey,
		RPCURL:          pf.rpcURL,
		ToriiURL:        pf.toriiURL,
		WorldAddress:    pf.worldAddress,
		Contracts:       pf.contracts,
	}
}

// merge overlays the flags that were set on top of an existing profile.
// Contracts given on the command line are merged key by key; an empty value
// clears the address.
func (pf *profileFlags) merge(p profile.Profile, fs *pflag.FlagSet) profile.Fields {
	f := profile.Fields{
		Name:            p.Name,
		Description:     p.Description,
		AdminAddress:    p.AdminAddress,
		AdminPrivateKey: p.AdminPrivateKey,
		RPCURL:          p.RPCURL,
		ToriiURL:        p.ToriiURL,
		WorldAddress:    p.WorldAddress,
		Contracts:       make(map[string]string, len(p.Contracts)),
	}
	for k, v := range p.Contracts {
		f.Contracts[k] = v
	}

	set := func(flag string, dst *string, v string) {
		if fs.Changed(flag) {
			*dst = v
		}
	}
	set("name", &f.Name, pf.name)
	set("description", &f.Description, pf.description)
	set("admin-address", &f.AdminAddress, pf.adminAddress)
	set("admin-key", &f.AdminPrivateKey, pf.adminKey)
	set("rpc", &f.RPCURL, pf.rpcURL)
	set("torii", &f.ToriiURL, pf.toriiURL)
	set("world", &f.WorldAddress, pf.worldAddress)
	if fs.Changed("contract") {
		for k, v := range pf.contracts {
			f.Contracts[k] = v
		}
	}
	return f
}

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"profiles"},
	Short:   "Manage connection profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newProfileService(cfg, logger)
		if err != nil {
			return err
		}
		l := svc.List()
		fmt.Println(ui.ProfileTable(l))
		fmt.Println(ui.Meta(fmt.Sprintf("%d profile(s), %d custom", len(l.Profiles), len(l.Profiles)-1)))
		if len(l.Profiles) == 1 {
			fmt.Println(ui.Hint("Add one with: evolute-admin profile add --name prod --rpc https://... (see --help)"))
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a profile (default: the active one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newProfileService(cfg, logger)
		if err != nil {
			return err
		}
		active := svc.Active()
		p := active
		if len(args) == 1 {
			if p, err = svc.Get(args[0]); err != nil {
				return err
			}
		}
		if !profileReveal {
			p = p.Redact()
		}
		fmt.Println(ui.ProfileDetail(p, p.ID == active.ID))
		return nil
	},
}

var profileAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a profile",
	Long: `Create a profile. The first custom profile becomes active.

Example:
  evolute-admin profile add --name prod \
    --admin-address 0x1 --admin-key 0x2 \
    --rpc https://api.cartridge.gg/x/starknet/mainnet \
    --torii https://api.cartridge.gg/x/evolute/torii \
    --world 0x3 --contract gameContract=0x4`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newProfileService(cfg, logger)
		if err != nil {
			return err
		}
		p, err := svc.Create(addFlags.fields())
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Profile %s created: %s", ui.ProfileName(p.Name), ui.Meta(p.ID))))
		if svc.Active().ID == p.ID {
			fmt.Println(ui.Info("It is now the active profile."))
		} else {
			fmt.Println(ui.Hint("Activate with: evolute-admin profile use " + p.ID))
		}
		return nil
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a profile",
	Long:  "Change fields of a custom profile. Only the flags given are changed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newProfileService(cfg, logger)
		if err != nil {
			return err
		}
		cur, err := svc.Get(args[0])
		if err != nil {
			return err
		}
		p, err := svc.Update(cur.ID, editFlags.merge(cur, cmd.Flags()))
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Profile %s updated.", ui.ProfileName(p.Name))))
		return nil
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a profile",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newProfileService(cfg, logger)
		if err != nil {
			return err
		}
		p, err := svc.Get(args[0])
		if err != nil {
			return err
		}
		if !profileYes && !ui.ConfirmDanger(os.Stdin, os.Stdout, fmt.Sprintf("Remove profile %q?", p.Name)) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		if err := svc.Delete(p.ID); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Profile %q removed.", p.Name)))
		return nil
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use [id]",
	Short: "Switch the active profile",
	Long:  "Switch the active profile. Without an id an interactive picker is shown.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newProfileService(cfg, logger)
		if err != nil {
			return err
		}

		var id string
		if len(args) == 1 {
			id = args[0]
		} else {
			items, cursor := ui.ProfileItems(svc.List())
			id, err = ui.PickItem("Select active profile", items, cursor)
			if err != nil {
				return err
			}
			if id == "" {
				fmt.Println(ui.Meta("Cancelled."))
				return nil
			}
		}

		p, err := svc.Activate(id)
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Active profile: %s", ui.ProfileName(p.Name))))
		return nil
	},
}

var profilePingCmd = &cobra.Command{
	Use:   "ping [id]",
	Short: "Check a profile's RPC endpoint",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newProfileService(cfg, logger)
		if err != nil {
			return err
		}
		p := svc.Active()
		if len(args) == 1 {
			if p, err = svc.Get(args[0]); err != nil {
				return err
			}
		}

		ep, err := rpc.HealthCheck(cmd.Context(), p.RPCURL, config.RPCProbeTimeout)
		if err != nil {
			fmt.Println(ui.Err(fmt.Sprintf("%s unreachable: %s", ui.Addr(p.RPCURL), ep.Error)))
			return fmt.Errorf("profile %s: %w", p.Name, err)
		}
		fmt.Println(ui.KeyValueBlock(p.Name, [][2]string{
			{"RPC", ep.URL},
			{"Chain", ep.ChainID},
			{"Block", fmt.Sprintf("%d", ep.BlockNumber)},
			{"Latency", ep.Latency.Round(time.Millisecond).String()},
		}))
		return nil
	},
}

func init() {
	addFlags.register(profileAddCmd.Flags())
	editFlags.register(profileEditCmd.Flags())
	profileShowCmd.Flags().BoolVar(&profileReveal, "reveal", false, "print the private key")
	profileRemoveCmd.Flags().BoolVarP(&profileYes, "yes", "y", false, "skip confirmation")

	profileCmd.AddCommand(
		profileListCmd,
		profileShowCmd,
		profileAddCmd,
		profileEditCmd,
		profileRemoveCmd,
		profileUseCmd,
		profilePingCmd,
	)
}
