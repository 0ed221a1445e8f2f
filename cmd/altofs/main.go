// Command altofs inspects and extracts files from Alto-era disk images.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"altofs/internal/diskfs"
	"altofs/internal/hostio"
)

// defaultGeometry is the common single-disk 2.5MB Alto geometry used when
// -2 is not given.
var defaultGeometry = diskfs.Geometry{
	NumDisks:     1,
	NumCylinders: 203,
	NumHeads:     2,
	NumSectors:   12,
	SectorWords:  256,
}

var twoDiskGeometry = diskfs.Geometry{
	NumDisks:     2,
	NumCylinders: 203,
	NumHeads:     2,
	NumSectors:   12,
	SectorWords:  256,
}

func main() {
	var (
		twoDisks   = flag.Bool("2", false, "use the two-disk geometry")
		checkOnly  = flag.String("c", "", "run the integrity check and exit; any non-empty LEVEL runs the same full check")
		listDir    = flag.String("d", "", "list the directory named by DIR (e.g. \"<\" for the root)")
		extractOne = flag.String("e", "", "extract a single FILE to a host file")
		framed     = flag.Bool("f", false, "use the framed (BFS) wire format instead of raw")
		verbose    int
	)
	flag.Func("v", "drop timestamps from log output (repeatable; it has no other effect)", func(string) error {
		verbose++
		return nil
	})
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <disk-image>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if verbose > 0 {
		log.SetFlags(0)
	} else {
		log.SetOutput(os.Stderr)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	imagePath := flag.Arg(0)

	geometry := defaultGeometry
	if *twoDisks {
		geometry = twoDiskGeometry
	}

	fs, err := hostio.LoadImage(imagePath, geometry, *framed)
	if err != nil {
		log.Printf("altofs: %v", err)
		os.Exit(1)
	}

	if *checkOnly != "" {
		if err := fs.CheckIntegrity(); err != nil {
			log.Printf("altofs: integrity check failed: %v", err)
			os.Exit(1)
		}
		fmt.Println("filesystem checked ok")
		return
	}

	if err := fs.CheckIntegrity(); err != nil {
		log.Printf("altofs: integrity check failed: %v", err)
		os.Exit(1)
	}

	switch {
	case *extractOne != "":
		if err := hostio.Extract(fs, *extractOne, fmt.Sprintf("%s.out", *extractOne)); err != nil {
			log.Printf("altofs: %v", err)
			os.Exit(1)
		}
	case *listDir != "":
		if err := printListing(fs, *listDir); err != nil {
			log.Printf("altofs: %v", err)
			os.Exit(1)
		}
	default:
		if err := printListing(fs, "<"); err != nil {
			log.Printf("altofs: %v", err)
			os.Exit(1)
		}
	}
}

// printListing lists the VALID entries of the directory named by path, one
// line per entry: kind, byte length, and name.
func printListing(fs *diskfs.FS, path string) error {
	entries, err := fs.ListDirectory(path)
	if err != nil {
		return err
	}
	fmt.Printf("count=%d\n", len(entries))
	for _, de := range entries {
		kind := "FILE"
		if de.FE.SN.IsDirectory() {
			kind = "DIR"
		}
		info, err := fs.Stat(childPath(path, de.Name))
		if err != nil {
			return err
		}
		fmt.Printf("  %-4s %10d name=%s\n", kind, info.Length, de.Name)
	}
	return nil
}

// childPath builds the path of a directory entry named name inside the
// directory named by path, in the "<a>b>c" naming grammar.
func childPath(path, name string) string {
	return path + ">" + name
}
