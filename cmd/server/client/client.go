// Package client provides test commands for the palette gRPC service
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-palette/internal/errors"
	"github.com/KirkDiggler/rpg-palette/internal/handlers/palette/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// ClientCmd is the root command for all client test commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Test client commands for the palette service",
	Long:  `Client commands exercise a running palette server with real gRPC requests and print the JSON responses.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	ClientCmd.AddCommand(listEntriesCmd)
	ClientCmd.AddCommand(buildPaletteCmd)
	ClientCmd.AddCommand(handleActionCmd)
	ClientCmd.AddCommand(openPickerCmd)
	ClientCmd.AddCommand(historyCmd)
	ClientCmd.AddCommand(rollPoolCmd)
}

// createPaletteClient connects to the server
func createPaletteClient() (*v1alpha1.PaletteServiceClient, func(), error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}

	return v1alpha1.NewPaletteServiceClient(conn), cleanup, nil
}

// call invokes one method with the given request fields and prints the
// response as indented JSON
func call(cmd *cobra.Command, method string, fields map[string]any) error {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	client, cleanup, err := createPaletteClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.Invoke(ctx, method, req)
	if err != nil {
		err = errors.FromGRPCError(err)
		return fmt.Errorf("%s failed (%s): %s", method, errors.GetCode(err), errors.GetMessage(err))
	}

	out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to render response: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// withOptional adds string fields that were given
func withOptional(fields map[string]any, optional map[string]string) map[string]any {
	for k, v := range optional {
		if v != "" {
			fields[k] = v
		}
	}
	return fields
}
