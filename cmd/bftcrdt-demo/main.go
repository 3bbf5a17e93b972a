// Command bftcrdt-demo drives a single in-process BFTHandler from a
// newline-delimited JSON op script, printing the resulting snapshot. It is
// a thin external collaborator over the public handler surface: argument
// parsing, op-script decoding, and peer-id generation are all transport-
// and tooling-adjacent concerns the core specification places out of scope.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	bftcrdt "github.com/haventide/bft-crdt"
)

// opRecord is one line of a demo op script.
type opRecord struct {
	Op    string `json:"op"`    // "add", "remove_all", "insert", "delete"
	Elem  string `json:"elem"`  // ORSet element
	Value string `json:"value"` // RGA inserted value
	Index int    `json:"index"` // RGA insert/delete visible index
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bftcrdt-demo",
		Short: "Replay an operation script against a single BFT CRDT handler",
	}
	root.AddCommand(newORSetCmd(), newRGACmd())
	return root
}

func newORSetCmd() *cobra.Command {
	var scriptPath string
	cmd := &cobra.Command{
		Use:   "orset",
		Short: "Replay an op script against an ORSet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runORSet(scriptPath)
		},
	}
	cmd.Flags().StringVar(&scriptPath, "script", "", "path to a newline-delimited JSON op script (defaults to stdin)")
	return cmd
}

func newRGACmd() *cobra.Command {
	var scriptPath string
	cmd := &cobra.Command{
		Use:   "rga",
		Short: "Replay an op script against an RGA",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRGA(scriptPath)
		},
	}
	cmd.Flags().StringVar(&scriptPath, "script", "", "path to a newline-delimited JSON op script (defaults to stdin)")
	return cmd
}

func newLogger() *zap.SugaredLogger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

func openScript(path string) (*os.File, error) {
	if path == "" {
		return os.Stdin, nil
	}
	return os.Open(path)
}

func runORSet(scriptPath string) error {
	log := newLogger()
	defer log.Sync()

	peerID := uuid.New().String()
	log.Infow("starting ORSet demo peer", "peer_id", peerID)

	f, err := openScript(scriptPath)
	if err != nil {
		return fmt.Errorf("opening op script: %w", err)
	}
	if scriptPath != "" {
		defer f.Close()
	}

	set := bftcrdt.NewORSet()
	handler := bftcrdt.NewHandler(bftcrdt.NewORSetInterpreter(set), log)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var rec opRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return fmt.Errorf("decoding op script line: %w", err)
		}

		switch rec.Op {
		case "add":
			handler.SubmitLocal(set.Add(rec.Elem))
		case "remove_all":
			handler.SubmitLocal(set.RemoveAll(rec.Elem))
		default:
			log.Warnw("skipping unrecognized op", "op", rec.Op)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading op script: %w", err)
	}

	for elem := range set.Snapshot() {
		fmt.Println(elem)
	}
	return nil
}

func runRGA(scriptPath string) error {
	log := newLogger()
	defer log.Sync()

	peerID := uuid.New().String()
	log.Infow("starting RGA demo peer", "peer_id", peerID)

	f, err := openScript(scriptPath)
	if err != nil {
		return fmt.Errorf("opening op script: %w", err)
	}
	if scriptPath != "" {
		defer f.Close()
	}

	rga := bftcrdt.NewRGA()
	handler := bftcrdt.NewHandler(bftcrdt.NewRGAInterpreter(rga), log)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var rec opRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return fmt.Errorf("decoding op script line: %w", err)
		}

		switch rec.Op {
		case "insert":
			op, err := rga.Insert(rec.Index, rec.Value, bftcrdt.UserID(peerID))
			if err != nil {
				log.Warnw("insert not applicable", "index", rec.Index, "err", err)
				continue
			}
			handler.SubmitLocal(op)
		case "delete":
			op, err := rga.Delete(rec.Index)
			if err != nil {
				log.Warnw("delete not applicable", "index", rec.Index, "err", err)
				continue
			}
			handler.SubmitLocal(op)
		default:
			log.Warnw("skipping unrecognized op", "op", rec.Op)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading op script: %w", err)
	}

	for _, v := range rga.Snapshot() {
		fmt.Println(v)
	}
	return nil
}
