package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentlobby/lobby/internal/model"
	"github.com/agentlobby/lobby/internal/token"
)

func newTokenCmd() *cobra.Command {
	var (
		room     string
		identity string
		name     string
		ttl      time.Duration
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a room access token",
		Long:  "Mint a signed access token for joining a room, using the configured realtime API credentials. Prints the raw JWT, or full connection details with --json.",
		Example: `  lobby token --room demo --identity alice
  lobby token --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(room, identity, name, ttl, jsonOut)
		},
	}

	cmd.Flags().StringVar(&room, "room", "", "Room name (random when omitted)")
	cmd.Flags().StringVar(&identity, "identity", "", "Participant identity (random when omitted)")
	cmd.Flags().StringVar(&name, "name", "Visitor", "Participant display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default 15m)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output full connection details as JSON")

	return cmd
}

func runToken(room, identity, name string, ttl time.Duration, jsonOut bool) error {
	initConfig()

	apiKey := viper.GetString("livekit.api_key")
	apiSecret := viper.GetString("livekit.api_secret")
	if apiKey == "" || apiSecret == "" {
		store, err := openStore()
		if err == nil {
			if apiKey == "" {
				apiKey, _ = store.GetSetting(cmdCtx(), settingLiveKitAPIKey)
			}
			if apiSecret == "" {
				apiSecret, _ = store.GetSetting(cmdCtx(), settingLiveKitAPISecret)
			}
			store.Close()
		}
	}

	minter := token.NewMinter(apiKey, apiSecret, ttl)
	if !minter.Configured() {
		return fmt.Errorf("realtime credentials not set (run 'lobby config set-secret' or set LOBBY_LIVEKIT_API_KEY and LOBBY_LIVEKIT_API_SECRET)")
	}

	if room == "" {
		room = token.RandomRoom()
	}
	if identity == "" {
		identity = token.RandomIdentity()
	}

	jwt, err := minter.Mint(room, identity, name)
	if err != nil {
		return fmt.Errorf("mint token: %w", err)
	}

	if !jsonOut {
		fmt.Println(jwt)
		return nil
	}

	details := model.ConnectionDetails{
		ServerURL:           viper.GetString("livekit.url"),
		RoomName:            room,
		ParticipantIdentity: identity,
		ParticipantName:     name,
		ParticipantToken:    jwt,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(details)
}
