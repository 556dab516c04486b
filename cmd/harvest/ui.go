package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"harvest/internal/catalog"
	"harvest/internal/game"
	"harvest/internal/history"

	"github.com/fatih/color"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptInt(label string, min, max int) (int, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			printWarn("Enter a whole number.")
			continue
		}
		if v < min || v > max {
			printWarn(fmt.Sprintf("Value must be between %d and %d.", min, max))
			continue
		}
		return v, nil
	}
}

func renderState(st *game.State) {
	if st == nil {
		return
	}
	accent.Printf("\n== SEASON %d of %d ==\n", st.CurrentSeason, game.MaxSeasons)
	for _, p := range st.Players {
		marker := "  "
		if !st.GameOver && p.PlayerNumber-1 == st.CurrentPlayerIndex {
			marker = "> "
		}
		line := fmt.Sprintf("%s%-9s  $%-8s  %s (%s)", marker, p.Name(), comma(p.Money), p.Country, p.SelectedCrop)
		switch {
		case p.IsBankrupt:
			danger.Println(line + "  BANKRUPT")
		case p.IsAI:
			neutral.Println(line)
		default:
			success.Println(line)
		}
	}
	if !st.LastRoll.IsZero() {
		neutral.Printf("Last roll: %d + %d = %d\n", st.LastRoll.First, st.LastRoll.Second, st.LastRoll.Sum())
	}
	fmt.Println()
}

func renderRound(st *game.State) {
	if st == nil {
		return
	}
	if n := len(st.RollHistory); n > 0 {
		last := st.RollHistory[n-1]
		accent.Printf("\nSeason %d roll: %d + %d\n", last.Season, last.Roll.First, last.Roll.Second)
		if last.Roll.IsDisaster() {
			danger.Println(last.Outcome)
		} else if last.Roll.IsDouble() {
			success.Println(last.Outcome)
		} else {
			neutral.Println(last.Outcome)
		}
	}
	renderState(st)
}

func renderGameOver(st *game.State) {
	if st == nil || st.Winner == nil {
		return
	}
	accent.Println("== GAME OVER ==")
	w := st.Winner
	line := fmt.Sprintf("%s wins with $%s (%s)", w.Name(), comma(w.Money), st.WinReason)
	if w.IsAI {
		warn.Println(line)
	} else {
		success.Println(line)
	}
}

func renderCountries(countries []catalog.Country) {
	if len(countries) == 0 {
		printWarn("The catalog is empty.")
		return
	}
	accent.Printf("\n%d countries available:\n", len(countries))
	for _, c := range countries {
		fmt.Printf("  %-32s %s\n", c.Name, strings.Join(c.CropNames(), ", "))
	}
	fmt.Println()
}

func renderLeaderboard(rows []history.Row) {
	if len(rows) == 0 {
		printInfo("No finished games recorded yet.")
		return
	}
	accent.Println("\n== LEADERBOARD ==")
	fmt.Printf("%4s  %-10s  %-24s  %-16s  %7s  %s\n", "#", "MONEY", "COUNTRY", "CROP", "SEASONS", "WON BY")
	for _, r := range rows {
		fmt.Printf("%4d  $%-9s  %-24s  %-16s  %7d  %s\n",
			r.Rank, comma(r.FinalMoney), truncate(r.Country, 24), truncate(r.Crop, 16), r.Seasons, r.WinReason)
	}
	fmt.Println()
}

func comma(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		if len(s) > pre {
			b.WriteByte(',')
		}
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
