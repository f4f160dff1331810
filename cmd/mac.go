package cmd

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var macCmd = &cobra.Command{
	Use:   "mac",
	Short: "Generate a locally administered MAC address",
	Long:  `Prints a random locally administered MAC address (02:00:00:xx:xx:xx), suitable as the ADGUARD_MAC value.`,
	Run: func(cmd *cobra.Command, args []string) {
		mac, err := generateMAC()
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			os.Exit(1)
		}
		fmt.Println(mac)
	},
}

func init() {
	rootCmd.AddCommand(macCmd)
}

// generateMAC returns a random MAC in the locally administered 02:00:00
// prefix, so it can never collide with a vendor-assigned address.
func generateMAC() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return fmt.Sprintf("02:00:00:%02x:%02x:%02x", buf[0], buf[1], buf[2]), nil
}
