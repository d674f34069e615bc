package frontend

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
)

// AssetFiles maps a combined output file to the source files it was
// built from.
type AssetFiles map[string][]string

// LoadCSS builds the combined, minified CSS bundles for the site.
// Passing an outputFile rebuilds just that bundle (used by the dev
// watcher).
func (website *Website) LoadCSS(outputFile string) (AssetFiles, error) {
	return website.loadAssets("css", "text/css", outputFile)
}

// LoadJS builds the combined, minified JS bundles for the site.
func (website *Website) LoadJS(outputFile string) (AssetFiles, error) {
	return website.loadAssets("js", "text/javascript", outputFile)
}

func (website *Website) loadAssets(kind, mediatype, outputFile string) (AssetFiles, error) {

	log.Printf("Building %s files for: [%s]", strings.ToUpper(kind), website.WebsiteConfig.SiteName)
	assetMap := make(AssetFiles)

	for _, tpl := range *website.TemplateConfigs {

		destination := tpl.CSSFile
		if kind == "js" {
			destination = tpl.JSFile
		}

		// skip if there is no specified output file
		if destination == "" {
			continue
		}

		if outputFile != "" && destination != outputFile {
			continue
		}

		// Crawl the folders of tpl.Requires first
		for _, required := range tpl.Requires {
			reqTpl := website.GetTemplate(required)
			err := crawlAssetFiles(reqTpl.Directory, kind, destination, assetMap)
			if err != nil {
				return assetMap, fmt.Errorf("failed to crawl %s files for %s: %v", kind, reqTpl.Directory, err)
			}
		}

		// Then search in tpl.Directory
		err := crawlAssetFiles(tpl.Directory, kind, destination, assetMap)
		if err != nil {
			return assetMap, fmt.Errorf("failed to crawl %s files for %s: %v", kind, tpl.Directory, err)
		}
	}

	for destination, filePaths := range assetMap {

		filePaths = removeDuplicateString(filePaths)
		assetMap[destination] = filePaths

		destinationFolder := fmt.Sprintf("%s/public/%s/", website.WebsiteConfig.Directory, kind)
		err := minifyAndCombine(filePaths, destinationFolder, destination, mediatype)
		if err != nil {
			log.Println(err.Error())
		}

		fmt.Printf("			Building %s file: [%s]\n", strings.ToUpper(kind), destination)

		for _, filePath := range filePaths {
			fmt.Printf("			> Including: %s\n", filePath)
		}
	}

	log.Printf("Done Building %s files for: [%s]", strings.ToUpper(kind), website.WebsiteConfig.SiteName)

	return assetMap, nil
}

func crawlAssetFiles(dir, kind, destination string, assetMap AssetFiles) error {
	var found []string

	suffix := "." + kind
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access directory: %v", err)
		}

		if !info.IsDir() && strings.HasSuffix(path, suffix) {
			found = append(found, path)
		}

		return nil
	})

	if err != nil {
		return err
	}

	if len(found) > 0 {
		assetMap[destination] = append(assetMap[destination], found...)
	}

	return nil
}

func minifyAndCombine(sourceFiles []string, destinationFolder, destinationFile, mediatype string) error {

	// Bail if we dont have any files
	if len(sourceFiles) < 1 {
		return nil
	}

	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/javascript", js.Minify)

	if _, err := os.Stat(destinationFolder); os.IsNotExist(err) {
		err = os.MkdirAll(destinationFolder, 0755)
		if err != nil {
			return err
		}
	}

	fo, err := os.Create(destinationFolder + destinationFile)
	if err != nil {
		return err
	}
	defer fo.Close()

	minifiedWriter := m.Writer(mediatype, fo)

	for _, file := range sourceFiles {
		fi, err := os.Open(file)
		if err != nil {
			return err
		}

		_, err = io.Copy(minifiedWriter, fi)
		fi.Close()
		if err != nil {
			return err
		}
	}

	return minifiedWriter.Close()
}
