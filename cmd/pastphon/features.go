package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/japaniel/pastphon/pkg/db"
	"github.com/japaniel/pastphon/pkg/phoneme"
	"github.com/japaniel/pastphon/pkg/transcript"
	"github.com/spf13/cobra"
)

func (c *cli) featuresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "features [symbols...]",
		Short: "Print phoneme feature vectors",
		Long: `Print the feature vector of each symbol: sonority (0-12), backness
(0-10) and the voice-onset-time, rounded, palatalized, lateral, nasal,
sibilant, trilled and diphthong flags. Arguments are segmented into single
symbols. With no arguments the whole alphabet is printed. Ranks of symbols
outside the alphabet are shown as "-".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var symbols []phoneme.Phoneme
			if len(args) == 0 {
				symbols = phoneme.Alphabet()
			}
			for _, a := range args {
				symbols = append(symbols, phoneme.Segment(a)...)
			}
			return writeFeatureTable(cmd.OutOrStdout(), symbols)
		},
	}
}

func (c *cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile [transcription]",
		Short: "Normalize a transcription and print its sonority profile",
		Long: `Normalize a transcription and print the sonority and backness of each
of its phonemes. With --pair the profile of a stored verb pair is read from
the database instead, for both its present and past forms.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair, _ := cmd.Flags().GetInt("pair")
			if pair >= 0 {
				if len(args) > 0 {
					return errors.New("profile takes a transcription or --pair, not both")
				}
				sourceID, _ := cmd.Flags().GetInt64("source")
				return c.profileStored(cmd.OutOrStdout(), sourceID, pair)
			}
			if len(args) == 0 {
				return errors.New("profile needs a transcription or --pair")
			}

			norm := transcript.Normalize(args[0])
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", mutedStyle.Render("normalized:"), norm)

			w := newProfileTable(out)
			for i, p := range phoneme.Segment(norm) {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, p, phoneme.Sonority(p), phoneme.Backness(p))
			}
			return w.Flush()
		},
	}
	cmd.Flags().String("db", "", "SQLite database (overrides database.path)")
	cmd.Flags().Int64("source", 1, "source id of the stored pair")
	cmd.Flags().Int("pair", -1, "position of a stored verb pair to profile")
	return cmd
}

// profileStored prints the stored segmentation of the pair at position.
func (c *cli) profileStored(out io.Writer, sourceID int64, position int) error {
	conn, err := openDatabase(c.cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	src, err := db.GetSource(conn, sourceID)
	if err != nil {
		return fmt.Errorf("failed to load source %d: %w", sourceID, err)
	}
	vp, err := db.GetVerbPairAt(conn, sourceID, position)
	if err != nil {
		return fmt.Errorf("failed to load pair %d of %s: %w", position, src.Path, err)
	}

	fmt.Fprintf(out, "%s %s/%s (%s)\n", mutedStyle.Render("pair:"), vp.PresentSpelling, vp.PastSpelling, vp.Status)
	if vp.Status != string(transcript.StatusProduced) {
		return nil
	}
	for _, f := range []struct {
		form db.Form
		ipa  string
	}{
		{db.FormPresent, vp.PresentIPA},
		{db.FormPast, vp.PastIPA},
	} {
		segs, err := db.GetPairPhonemes(conn, vp.ID, f.form)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s\n", mutedStyle.Render(string(f.form)+":"), f.ipa)
		w := newProfileTable(out)
		for _, s := range segs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Position, s.Symbol, storedRank(s.Sonority), storedRank(s.Backness))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func newProfileTable(out io.Writer) *tabwriter.Writer {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		headerStyle.Render("#"),
		headerStyle.Render("Symbol"),
		headerStyle.Render("Sonority"),
		headerStyle.Render("Backness"))
	return w
}

// storedRank formats a rank read back from the database; NULL prints as "-".
func storedRank(r *int) string {
	if r == nil {
		return "-"
	}
	return strconv.Itoa(*r)
}

func writeFeatureTable(out io.Writer, symbols []phoneme.Phoneme) error {
	if len(symbols) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("(no symbols)"))
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	headers := []string{"Symbol", "Son", "Back", "VOT", "Rnd", "Pal", "Lat", "Nas", "Sib", "Tri", "Diph"}
	for i, h := range headers {
		sep := "\t"
		if i == len(headers)-1 {
			sep = "\n"
		}
		fmt.Fprint(w, headerStyle.Render(h)+sep)
	}
	for _, p := range symbols {
		v := phoneme.Extract(p)
		bits := v.Bits()
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			p, v.Sonority, v.Backness,
			bits[0], bits[1], bits[2], bits[3], bits[4], bits[5], bits[6], bits[7])
	}
	return w.Flush()
}
