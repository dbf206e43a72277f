// Command xp is a dev CLI for xpilot maintenance and debugging tasks.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/chromedp/chromedp"
	"github.com/pkg/browser"

	browseropts "github.com/ducpham-dev/xpilot/internal/browser"
	"github.com/ducpham-dev/xpilot/internal/config"
	"github.com/ducpham-dev/xpilot/internal/store"
	"github.com/ducpham-dev/xpilot/internal/types"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "bot-test":
		runBotTest()
	case "open":
		if len(os.Args) < 3 {
			fmt.Println("Usage: xp open <config|db|media>")
			os.Exit(1)
		}
		runOpen(os.Args[2])
	case "accounts":
		runAccounts()
	case "account-add":
		if len(os.Args) < 4 {
			fmt.Println("Usage: xp account-add <name> <username> [gemini-key] [chatgpt-key]")
			os.Exit(1)
		}
		runAccountAdd(os.Args[2:])
	case "account-del":
		if len(os.Args) < 3 {
			fmt.Println("Usage: xp account-del <profile-id>")
			os.Exit(1)
		}
		runAccountDel(os.Args[2])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: xp <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  bot-test                    Open bot.sannysoft.com to audit browser fingerprint")
	fmt.Println("  open config                 Open config file in default editor")
	fmt.Println("  open db                     Open the database directory")
	fmt.Println("  open media                  Open the media download directory")
	fmt.Println("  accounts                    List configured accounts")
	fmt.Println("  account-add <name> <user> [gemini-key] [chatgpt-key]")
	fmt.Println("                              Add an account (a Gemini key selects Gemini)")
	fmt.Println("  account-del <profile-id>    Delete an account")
}

func runBotTest() {
	log.Println("Opening bot.sannysoft.com with stealth browser options...")

	opts := browseropts.Options(false) // non-headless so you can see it

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	go func() {
		err := chromedp.Run(ctx,
			chromedp.Navigate("https://bot.sannysoft.com"),
		)
		if err != nil {
			log.Printf("Failed to navigate: %v", err)
		}
	}()

	fmt.Println("Press Enter to end program...")
	fmt.Scanln()

	log.Println("Done.")
}

func runOpen(target string) {
	cfg := loadConfig()

	var path string
	var err error
	switch target {
	case "config":
		path, err = config.ConfigPath()
	case "db":
		path = cfg.Storage.DBPath
	case "media":
		path = cfg.Media.Dir
	default:
		fmt.Printf("Unknown target: %s\n", target)
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Failed to get path: %v", err)
	}
	if err := browser.OpenFile(path); err != nil {
		log.Fatalf("Failed to open: %v", err)
	}
}

func runAccounts() {
	st := openStore()
	defer st.Close()

	accounts, err := st.ListAccounts()
	if err != nil {
		log.Fatalf("Failed to list accounts: %v", err)
	}
	if len(accounts) == 0 {
		fmt.Println("No accounts configured.")
		return
	}
	for _, a := range accounts {
		provider := "chatgpt"
		if a.UseGemini {
			provider = "gemini"
		}
		fmt.Printf("%s  %-20s @%-15s %s\n", a.ProfileID, a.Name, a.Username, provider)
	}
}

func runAccountAdd(args []string) {
	st := openStore()
	defer st.Close()

	a := types.Account{Name: args[0], Username: args[1]}
	if len(args) > 2 && args[2] != "" {
		a.UseGemini = true
		a.GeminiKey = args[2]
	}
	if len(args) > 3 {
		a.ChatGPTKey = args[3]
	}
	if a.GeminiKey == "" && a.ChatGPTKey == "" {
		log.Fatal("An API key is required (gemini or chatgpt)")
	}

	if err := st.CreateAccount(&a); err != nil {
		log.Fatalf("Failed to create account: %v", err)
	}
	fmt.Printf("Created account %s (%s)\n", a.Name, a.ProfileID)
}

func runAccountDel(profileID string) {
	st := openStore()
	defer st.Close()

	if err := st.DeleteAccount(profileID); err != nil {
		log.Fatalf("Failed to delete account: %v", err)
	}
	fmt.Println("Deleted.")
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}
	return cfg
}

func openStore() *store.Store {
	cfg := loadConfig()
	st, err := store.New(cfg.Storage.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	return st
}
