package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/imamik/photofx/internal/params"
	"github.com/imamik/photofx/internal/session"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit an image interactively from stdin commands",
	Long: `Load an image and read one command per line from stdin:

  set <key> <value>   change a parameter
  commit              record the current result in history
  undo | redo         step through committed results
  reset               restore defaults and the original image
  params              print non-default parameters
  save <path>         write the current result
  quit                stop reading`,
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	set, err := loadParams()
	if err != nil {
		return err
	}
	img, err := imaging.Open(inputPath, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	sess := session.New(session.Options{HistoryLimit: 50})
	defer sess.Close()

	if err := sess.Load(img); err != nil {
		return err
	}
	for _, k := range params.Keys() {
		if v, ok := set[k]; ok {
			if err := sess.Set(k, v); err != nil {
				return err
			}
		}
	}
	if len(set) > 0 {
		if err := sess.Commit(); err != nil {
			return err
		}
	}
	return editLoop(sess, cmd.InOrStdin(), cmd.OutOrStdout())
}

var errQuit = errors.New("quit")

// editLoop executes commands until EOF or quit. Command errors are reported
// and reading continues.
func editLoop(sess *session.Session, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		err := editCommand(sess, strings.Fields(line), out)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
	return sc.Err()
}

func editCommand(sess *session.Session, fields []string, out io.Writer) error {
	switch cmd, args := fields[0], fields[1:]; cmd {
	case "set":
		if len(args) != 2 {
			return fmt.Errorf("usage: set <key> <value>")
		}
		v, err := params.ParseValue(args[1])
		if err != nil {
			return err
		}
		if err := sess.Set(args[0], v); err != nil {
			return err
		}
		return sess.Wait()
	case "commit":
		if err := sess.Commit(); err != nil {
			return err
		}
		undo, _ := sess.History()
		fmt.Fprintf(out, "committed (%d in history)\n", undo)
	case "undo":
		if err := sess.Undo(); err != nil {
			return err
		}
		fmt.Fprintln(out, "undone")
	case "redo":
		if err := sess.Redo(); err != nil {
			return err
		}
		fmt.Fprintln(out, "redone")
	case "reset":
		if err := sess.Reset(); err != nil {
			return err
		}
		fmt.Fprintln(out, "reset")
	case "params":
		p := sess.Params()
		for _, k := range params.Keys() {
			if _, ok := p[k]; ok && !p.IsDefault(k) {
				fmt.Fprintf(out, "%s=%g\n", k, p[k])
			}
		}
	case "save":
		if len(args) != 1 {
			return fmt.Errorf("usage: save <path>")
		}
		if err := sess.Wait(); err != nil {
			return err
		}
		if err := imaging.Save(sess.Image(), args[0]); err != nil {
			return fmt.Errorf("failed to save image: %w", err)
		}
		fmt.Fprintf(out, "saved %s\n", args[0])
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}
