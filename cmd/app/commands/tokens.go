package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
	tokenizationUseCase "github.com/allisson/tokenize/internal/tokenization/usecase"
)

// TokenOptions carries the flags shared by the token commands.
type TokenOptions struct {
	// Format is "text" or "json".
	Format string
	IO     IOTuple
}

// RunStore tokenizes data with scheme and prints the token. When isJSON is set, data is
// decoded as a JSON document and stored in its structured form.
func RunStore(
	ctx context.Context,
	gateway tokenizationUseCase.Gateway,
	logger *slog.Logger,
	data string,
	isJSON bool,
	scheme string,
	opts TokenOptions,
) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	var payload any = data
	if isJSON {
		if err := json.Unmarshal([]byte(data), &payload); err != nil {
			return fmt.Errorf("failed to parse data as JSON: %w", err)
		}
	}

	token, outcome, err := gateway.StoreWithOutcome(ctx, payload, scheme)
	if err != nil {
		return tokenCommandError("store", outcome.Result.Errors(), err)
	}

	logger.Info("data tokenized",
		slog.String("reference_number", outcome.Result.ReferenceNumber),
		slog.String("provider", outcome.State.Provider),
		slog.Int("slot", outcome.State.Slot),
	)

	if opts.Format == "json" {
		return outputJSON(opts.IO.Writer, map[string]string{
			"token":            token,
			"reference_number": outcome.Result.ReferenceNumber,
		})
	}
	_, _ = fmt.Fprintln(opts.IO.Writer, token)
	return nil
}

// RunGet detokenizes token and prints the stored payload.
func RunGet(
	ctx context.Context,
	gateway tokenizationUseCase.Gateway,
	logger *slog.Logger,
	token string,
	opts TokenOptions,
) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	value, err := gateway.Get(ctx, token)
	if err != nil {
		return tokenCommandError("get", gateway.Errors(), err)
	}

	logger.Info("token detokenized", slog.String("reference_number", gateway.ReferenceNumber()))

	if opts.Format == "json" {
		return outputJSON(opts.IO.Writer, map[string]any{"token": token, "data": value})
	}
	if text, ok := value.(string); ok {
		_, _ = fmt.Fprintln(opts.IO.Writer, text)
		return nil
	}
	return outputJSON(opts.IO.Writer, value)
}

// RunValidate reports whether the vault holds token.
func RunValidate(
	ctx context.Context,
	gateway tokenizationUseCase.Gateway,
	logger *slog.Logger,
	token string,
	opts TokenOptions,
) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	valid, err := gateway.Validate(ctx, token)
	if err != nil {
		return tokenCommandError("validate", gateway.Errors(), err)
	}

	logger.Info("token validated", slog.Bool("valid", valid))

	if opts.Format == "json" {
		return outputJSON(opts.IO.Writer, map[string]any{"token": token, "valid": valid})
	}
	_, _ = fmt.Fprintf(opts.IO.Writer, "valid: %t\n", valid)
	return nil
}

// RunDelete removes token from the vault.
func RunDelete(
	ctx context.Context,
	gateway tokenizationUseCase.Gateway,
	logger *slog.Logger,
	token string,
	opts TokenOptions,
) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	deleted, outcome, err := gateway.DeleteWithOutcome(ctx, token)
	if err != nil {
		return tokenCommandError("delete", outcome.Result.Errors(), err)
	}

	actionErrors := outcome.Result.Errors()
	logger.Info("token delete completed",
		slog.Bool("deleted", deleted),
		slog.String("reference_number", outcome.Result.ReferenceNumber),
	)

	if opts.Format == "json" {
		return outputJSON(opts.IO.Writer, map[string]any{
			"token":   token,
			"deleted": deleted,
			"errors":  actionErrors,
		})
	}
	_, _ = fmt.Fprintf(opts.IO.Writer, "deleted: %t\n", deleted)
	if len(actionErrors) > 0 {
		_, _ = fmt.Fprintf(opts.IO.Writer, "vault errors: %s\n", formatActionErrors(actionErrors))
	}
	return nil
}

// RunUsageStats prints the account usage report and token count.
func RunUsageStats(
	ctx context.Context,
	gateway tokenizationUseCase.Gateway,
	logger *slog.Logger,
	opts TokenOptions,
) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	stats, err := gateway.UsageStats(ctx)
	if err != nil {
		return tokenCommandError("usage-stats", gateway.Errors(), err)
	}

	count, err := gateway.TokenCount(ctx)
	if err != nil {
		return tokenCommandError("usage-stats", gateway.Errors(), err)
	}

	logger.Info("usage stats retrieved", slog.Int64("token_count", count))

	if opts.Format == "json" {
		return outputJSON(opts.IO.Writer, map[string]any{"stats": stats, "token_count": count})
	}
	_, _ = fmt.Fprintf(opts.IO.Writer, "token count: %d\n", count)
	for key, value := range stats {
		_, _ = fmt.Fprintf(opts.IO.Writer, "%s: %v\n", key, value)
	}
	return nil
}

// tokenCommandError wraps err with the vault errors of the failed call, if any.
func tokenCommandError(command string, actionErrors []tokenizationDomain.ActionError, err error) error {
	if len(actionErrors) == 0 {
		return fmt.Errorf("failed to %s: %w", command, err)
	}
	return fmt.Errorf("failed to %s: %w (vault errors: %s)", command, err, formatActionErrors(actionErrors))
}

func formatActionErrors(actionErrors []tokenizationDomain.ActionError) string {
	parts := make([]string, 0, len(actionErrors))
	for _, actionError := range actionErrors {
		parts = append(parts, fmt.Sprintf("%d%s%s",
			actionError.Code, tokenizationDomain.ActionErrorDelimiter, actionError.Message))
	}
	return strings.Join(parts, "; ")
}
