package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	agentcommon "github.com/agentpay/agentpay/common"
)

// succeedOut prints payload inside the {"success": true, ...} envelope when
// --json is set; otherwise it calls human to render for a terminal.
func succeedOut(payload any, human func()) error {
	if !jsonFlag {
		human()
		return nil
	}
	envelope := map[string]any{"success": true}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	for k, v := range fields {
		envelope[k] = v
	}
	out, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// failOut renders an error in the same envelope shape; the exit code is the
// caller's business.
func failOut(err error) {
	if !jsonFlag {
		fmt.Fprintln(os.Stderr, agentcommon.AlertColor(err.Error()))
		return
	}
	out, _ := json.MarshalIndent(map[string]any{
		"success": false,
		"error":   err.Error(),
	}, "", "  ")
	fmt.Println(string(out))
}
