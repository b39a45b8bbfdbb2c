package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mbenaiss/whatsapp-session/apiclient"
	"github.com/spf13/cobra"
)

var (
	bridgeURL string
	timeout   time.Duration
	bridge    *apiclient.Client
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wactl",
		Short:         "Drive a running WhatsApp bridge",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			bridge = apiclient.New(bridgeURL, nil)
			return nil
		},
	}

	defaultURL := os.Getenv("BRIDGE_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080/api"
	}
	root.PersistentFlags().StringVar(&bridgeURL, "bridge", defaultURL, "bridge API base URL")
	root.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "request timeout")

	root.AddCommand(
		statusCmd(), sendCmd(), sendImageCmd(), sendVoiceCmd(),
		chatsCmd(), messagesCmd(), unreadCmd(), contactsCmd(),
		membersCmd(), batteryCmd(), readCmd(), closeCmd(),
	)
	return root
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			status, err := bridge.Status(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "session:   %s (%s)\nstate:     %s\nlogged in: %t\n",
				status.Session, status.SessionID, status.State, status.LoggedIn)
			if status.BrowserClosed {
				fmt.Fprintln(cmd.OutOrStdout(), "browser:   closed")
			}
			return nil
		},
	}
}

// send <recipient> <message>: send a text message
func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <recipient> <message>",
		Short: "Send a text message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			receipt, err := bridge.SendMessage(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %s)\n", receipt.Message, receipt.ID)
			return nil
		},
	}
}

func sendImageCmd() *cobra.Command {
	var caption string
	cmd := &cobra.Command{
		Use:   "send-image <recipient> <media-ref>",
		Short: "Send an image from a URL or a path readable by the bridge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			receipt, err := bridge.SendImage(ctx, args[0], args[1], caption)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %s)\n", receipt.Message, receipt.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&caption, "caption", "", "image caption")
	return cmd
}

func sendVoiceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send-voice <recipient> <media-ref>",
		Short: "Send an audio file as a voice note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			receipt, err := bridge.SendVoice(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %s)\n", receipt.Message, receipt.ID)
			return nil
		},
	}
}

func chatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chats",
		Short: "List chats, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			chats, err := bridge.Chats(ctx)
			if err != nil {
				return err
			}
			renderChats(cmd.OutOrStdout(), chats)
			return nil
		},
	}
}

func messagesCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "messages <chat>",
		Short: "List the messages of a chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			messages, err := bridge.Messages(ctx, args[0], limit)
			if err != nil {
				return err
			}
			renderMessages(cmd.OutOrStdout(), messages)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of most recent messages, 0 for all")
	return cmd
}

func unreadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unread",
		Short: "List unread messages across chats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			messages, err := bridge.UnreadMessages(ctx)
			if err != nil {
				return err
			}
			renderMessages(cmd.OutOrStdout(), messages)
			return nil
		},
	}
}

func contactsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contacts",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			contacts, err := bridge.Contacts(ctx)
			if err != nil {
				return err
			}
			renderContacts(cmd.OutOrStdout(), contacts)
			return nil
		},
	}
}

func membersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "members <group>",
		Short: "List the participants of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			members, err := bridge.GroupMembers(ctx, args[0])
			if err != nil {
				return err
			}
			for _, m := range members {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
}

func batteryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "battery",
		Short: "Show the battery level of the paired phone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			level, err := bridge.BatteryLevel(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.Itoa(level)+"%")
			return nil
		},
	}
}

func readCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <chat>",
		Short: "Mark a chat as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			if err := bridge.MarkRead(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "marked as read")
			return nil
		},
	}
}

func closeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close",
		Short: "Close the bridge session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			msg, err := bridge.Close(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}
