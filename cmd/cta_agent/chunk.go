package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwhitman/cta-engine/internal/chunking"
)

var chunkCommand = &cobra.Command{
	Use:   "chunk",
	Short: "Chunk an article and print the resulting chunk table",
	Long:  "Splits an article into annotatable chunks without calling any external service. Useful for inspecting how a document will be segmented.",
	RunE:  runChunkCmd,
}

var (
	chunkArticle string
	chunkFormat  string
)

func init() {
	chunkCommand.Flags().StringVarP(&chunkArticle, "article", "a", "", "Path to article file (required)")
	chunkCommand.Flags().StringVarP(&chunkFormat, "format", "f", "", "Content format: html, markdown, or text (default inferred from extension)")
	_ = chunkCommand.MarkFlagRequired("article")

	rootCmd.AddCommand(chunkCommand)
}

func runChunkCmd(_ *cobra.Command, _ []string) error {
	doc, err := loadDocumentFromFile(chunkArticle, chunkFormat)
	if err != nil {
		return err
	}

	result, err := chunking.Chunk(doc)
	if err != nil {
		return err
	}

	fmt.Printf("%d blocks, %d chunks\n\n", len(result.Blocks), len(result.Chunks))
	fmt.Printf("%-10s %-5s %-6s %-6s  %s\n", "ID", "POS", "BLOCK", "WORDS", "CONTENT")
	for _, chunk := range result.Chunks {
		content := chunk.Content
		if len(content) > 60 {
			content = content[:57] + "..."
		}
		fmt.Printf("%-10s %-5d %-6d %-6d  %s\n", chunk.ID, chunk.Position, chunk.BlockIndex, chunk.WordCount, content)
	}
	return nil
}
