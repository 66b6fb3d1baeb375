package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/kyun-host/kyuncli/pkg/format"
	"github.com/kyun-host/kyuncli/pkg/logger"
	"github.com/kyun-host/kyuncli/pkg/presenter"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Support chat interface",
	Long:  `Read and manage support conversations. Sending messages happens through the web interface.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var chatListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all your support chats",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		chats, err := client.Chats(ctx)
		if err != nil {
			presenter.Error(err, "Failed to fetch chats")
			os.Exit(1)
		}
		if len(chats) == 0 {
			presenter.Info("No support chats found.")
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tLAST MESSAGE\tUPDATED\tUNREAD")
		fmt.Fprintln(tw, "--\t----\t------------\t-------\t------")
		for _, c := range chats {
			name := c.Name
			if name == "" {
				name = "Unnamed"
			}
			lastMessage := "No messages"
			if c.LastMessage != nil {
				content := c.LastMessage.Content
				if len(content) > 25 {
					content = content[:25] + "..."
				}
				lastMessage = fmt.Sprintf("%s: %s", c.LastMessage.Author, content)
			}
			unread := "No"
			if !c.ReadByUser {
				unread = "Yes"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, name, lastMessage, format.Timestamp(c.UpdatedAt), unread)
		}
		tw.Flush()
	},
}

var chatCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Start a new support chat",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		private, _ := cmd.Flags().GetBool("private")
		client, _ := activeClient(ctx)

		chatID, err := client.CreateChat(ctx, private)
		if err != nil {
			presenter.Error(err, "Failed to create chat")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Support chat created with ID: %s", chatID))
		if private {
			presenter.Info("Ultra private mode enabled (messages never leave Kyun servers)")
		}
	},
}

var chatOpenCmd = &cobra.Command{
	Use:   "open <chat-id>",
	Short: "View messages from a support chat",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, acct := activeClient(ctx)

		messages, err := client.ChatMessages(ctx, args[0])
		if err != nil {
			presenter.Error(err, "Failed to open chat")
			os.Exit(1)
		}

		if err := client.MarkChatRead(ctx, args[0]); err != nil {
			logger.G(ctx).WithError(err).WithField("chat", args[0]).Debug("failed to mark chat read")
		}

		presenter.Section("Support Chat: " + args[0])
		if len(messages) == 0 {
			presenter.Info("No messages in this chat yet.")
			return
		}

		for _, msg := range messages {
			author := "Support"
			if msg.AuthorID.String() == acct.UserID {
				author = "You"
			}
			presenter.Info(fmt.Sprintf("[%s] %s: %s", format.Timestamp(msg.CreatedAt), author, msg.Content))
		}
		presenter.Separator()
		presenter.Info("To send messages, please use the Kyun web interface.")
	},
}

var chatDeleteCmd = &cobra.Command{
	Use:   "delete <chat-id>",
	Short: "Delete a support chat",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		if !presenter.Confirm(fmt.Sprintf("Delete chat %s? This cannot be undone.", args[0])) {
			presenter.Info("Operation cancelled.")
			return
		}

		if err := client.DeleteChat(ctx, args[0]); err != nil {
			presenter.Error(err, "Failed to delete chat")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Chat %s deleted", args[0]))
	},
}

var chatStaffCmd = &cobra.Command{
	Use:   "staff",
	Short: "Show online staff count",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		count, err := client.ActiveStaffCount(ctx)
		if err != nil {
			presenter.Error(err, "Failed to get staff count")
			os.Exit(1)
		}
		presenter.Info(fmt.Sprintf("Online support staff: %d", count))
	},
}

var chatPrivacyCmd = &cobra.Command{
	Use:   "privacy",
	Short: "Manage chat privacy settings",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var chatPrivacyEnableCmd = &cobra.Command{
	Use:   "enable <chat-id>",
	Short: "Enable ultra private mode for a chat",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		if err := client.EnableUltraPrivateMode(ctx, args[0]); err != nil {
			presenter.Error(err, "Failed to enable ultra private mode")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Ultra private mode enabled for chat %s", args[0]))
	},
}

var chatPrivacyDisableCmd = &cobra.Command{
	Use:   "disable <chat-id>",
	Short: "Disable ultra private mode for a chat",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		if err := client.DisableUltraPrivateMode(ctx, args[0]); err != nil {
			presenter.Error(err, "Failed to disable ultra private mode")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Ultra private mode disabled for chat %s", args[0]))
	},
}

func init() {
	chatCreateCmd.Flags().Bool("private", false, "Enable ultra private mode (messages never leave Kyun servers)")

	chatPrivacyCmd.AddCommand(chatPrivacyEnableCmd)
	chatPrivacyCmd.AddCommand(chatPrivacyDisableCmd)

	chatCmd.AddCommand(chatListCmd)
	chatCmd.AddCommand(chatCreateCmd)
	chatCmd.AddCommand(chatOpenCmd)
	chatCmd.AddCommand(chatDeleteCmd)
	chatCmd.AddCommand(chatStaffCmd)
	chatCmd.AddCommand(chatPrivacyCmd)
}
