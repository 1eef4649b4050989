package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dataqueryai/dataquery/cmd/cli/config"
	"github.com/dataqueryai/dataquery/cmd/cli/output"
)

// datasetSummary mirrors the API's dataset response.
type datasetSummary struct {
	Name     string     `json:"name"`
	Columns  []string   `json:"columns"`
	RowCount int        `json:"row_count"`
	Preview  [][]string `json:"preview"`
}

// ==========================
// Init Data
// ==========================
func InitData(rootCmd *cobra.Command) {

	dataCmd := &cobra.Command{
		Use:   "data",
		Short: "Manage the active dataset and ask questions",
	}

	dataCmd.AddCommand(
		uploadCmd(),
		showCmd(),
		askCmd(),
	)

	rootCmd.AddCommand(dataCmd)
}

// ==========================
// UPLOAD
// ==========================
func uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload [file.csv]",
		Short: "Upload a CSV dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			part, err := mw.CreateFormFile("file", filepath.Base(args[0]))
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, f); err != nil {
				return err
			}
			mw.Close()

			req, err := http.NewRequest("POST", config.APIURL()+"/datasets", &buf)
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", mw.FormDataContentType())
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			data, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusCreated {
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(data))
			}

			var ds datasetSummary
			if err := json.Unmarshal(data, &ds); err != nil {
				return err
			}

			fmt.Printf("Uploaded %s (%d rows)\n", ds.Name, ds.RowCount)
			output.RenderTable(ds.Columns, ds.Preview)
			return nil
		},
	}
}

// ==========================
// SHOW
// ==========================
func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			req, _ := http.NewRequest("GET", config.APIURL()+"/datasets", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			data, _ := io.ReadAll(resp.Body)
			if resp.StatusCode == http.StatusNotFound {
				fmt.Println("No dataset uploaded. Use 'dataquery data upload' first.")
				return nil
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(data))
			}

			var ds datasetSummary
			if err := json.Unmarshal(data, &ds); err != nil {
				return err
			}

			fmt.Printf("%s (%d rows, %d columns)\n", ds.Name, ds.RowCount, len(ds.Columns))
			output.RenderTable(ds.Columns, ds.Preview)
			return nil
		},
	}
}

// ==========================
// ASK
// ==========================
func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask a question about the current dataset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			question := strings.Join(args, " ")
			body, _ := json.Marshal(map[string]string{"question": question})

			req, err := http.NewRequest("POST", config.APIURL()+"/questions", bytes.NewBuffer(body))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			data, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				var errResp struct {
					Error string `json:"error"`
				}
				_ = json.Unmarshal(data, &errResp)
				if errResp.Error != "" {
					return fmt.Errorf("%s", errResp.Error)
				}
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(data))
			}

			var out struct {
				Answer string   `json:"answer"`
				Cells  []string `json:"cells"`
			}
			if err := json.Unmarshal(data, &out); err != nil {
				return err
			}

			fmt.Println("Answer:", out.Answer)
			return nil
		},
	}
}
