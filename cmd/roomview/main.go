package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/roomview"
	"github.com/bodgit/roomview/world"
	"github.com/urfave/cli/v2"
)

const defaultDB = "roomview.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func main() {
	app := cli.NewApp()

	app.Name = "roomview"
	app.Usage = "Room photo conversion and viewing utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"ROOMVIEW_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "import",
			Usage:       "Import rooms and objects from XML",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, err := world.Open(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				if err := db.ImportXML(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "rooms",
			Usage:       "List rooms",
			Description: "",
			Action: func(c *cli.Context) error {
				db, err := world.Open(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				names, err := db.Rooms()
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				for _, name := range names {
					fmt.Println(name)
				}

				return nil
			},
		},
		{
			Name:        "convert",
			Usage:       "Convert PNG, JPEG or GIF images to photo or object format",
			Description: "",
			ArgsUsage:   "FILE|DIRECTORY",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "sprite",
					Usage: "convert to object image format",
				},
				&cli.IntFlag{
					Name:  "workers",
					Value: 0,
					Usage: "number of conversions to run at once, 0 means one per CPU",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				kind := roomview.KindPhoto
				if c.Bool("sprite") {
					kind = roomview.KindSprite
				}

				path := c.Args().First()
				info, err := os.Stat(path)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if info.IsDir() {
					if err := roomview.ConvertDir(path, kind, c.Int("workers"), newLogger(c)); err != nil {
						return cli.NewExitError(err, 1)
					}
					return nil
				}

				target, err := roomview.ConvertFile(path, kind)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				newLogger(c).Printf("Converted \"%s\" to %s \"%s\"\n", path, kind, target)

				return nil
			},
		},
		{
			Name:        "render",
			Usage:       "Draw the viewport for a room",
			Description: "",
			ArgsUsage:   "ROOM",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "x",
					Usage: "map x coordinate of the left of the viewport",
				},
				&cli.IntFlag{
					Name:  "y",
					Usage: "map y coordinate of the top of the viewport",
				},
				&cli.IntFlag{
					Name:  "scale",
					Value: 1,
					Usage: "scale the output by this factor",
				},
				&cli.StringFlag{
					Name:  "format",
					Value: "png",
					Usage: "output format, one of png, gif or qoi",
				},
				&cli.StringFlag{
					Name:  "out",
					Usage: "output file, defaults to the room name plus format extension",
				},
				&cli.BoolFlag{
					Name:  "columns",
					Usage: "draw using vertical lines",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, err := world.Open(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				name := c.Args().First()
				out := c.String("out")
				if out == "" {
					out = name + "." + c.String("format")
				}

				if err := render(db, name, out, renderOptions{
					x:       c.Int("x"),
					y:       c.Int("y"),
					scale:   c.Int("scale"),
					format:  c.String("format"),
					columns: c.Bool("columns"),
				}, newLogger(c)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "inspect",
			Usage:       "Report how closely a photo can be reproduced",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				r, err := inspect(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				fmt.Print(r)

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
