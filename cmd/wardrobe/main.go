// Command wardrobe is a terminal client for the wardrobe service. It runs
// the same optimistic controller the web client uses, so every mutation
// goes through the cache-reconciling submission flow.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/wardrobe/service/internal/client"
	"github.com/wardrobe/service/internal/item"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: wardrobe [flags] <command> [args]

commands:
  me                    show the authenticated identity
  list                  list items, newest first
  total                 show the total item count
  get <id>              show one item
  add                   create an item (requires -name -type -size -color, optional -image)
  edit <id>             replace an item's fields (same flags as add)
  rm <id>               delete an item

flags:
`)
	flag.PrintDefaults()
}

// printNotifier surfaces controller notifications on the terminal.
type printNotifier struct{}

func (printNotifier) Success(message string) { fmt.Println(message) }
func (printNotifier) Error(message string)   { fmt.Fprintln(os.Stderr, message) }

func main() {
	server := flag.String("server", envOr("WARDROBE_SERVER", "http://localhost:8080"), "service base URL")
	token := flag.String("token", os.Getenv("WARDROBE_TOKEN"), "bearer token from the identity provider")
	name := flag.String("name", "", "item name")
	typ := flag.String("type", "", "item type")
	size := flag.String("size", "", "item size")
	color := flag.String("color", "", "item color")
	image := flag.String("image", "", "path to an image file to upload")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	api := client.NewAPI(*server, *token)
	ctrl := client.NewController(api, client.NewCache(), printNotifier{}, nil)
	ctx := context.Background()

	var err error
	switch flag.Arg(0) {
	case "me":
		err = showMe(ctx, ctrl)
	case "list":
		err = listItems(ctx, ctrl)
	case "total":
		err = showTotal(ctx, ctrl)
	case "get":
		err = getItem(ctx, api)
	case "add":
		err = submit(ctx, api, ctrl, 0, *name, *typ, *size, *color, *image)
	case "edit":
		id, perr := argID()
		if perr != nil {
			err = perr
			break
		}
		err = submit(ctx, api, ctrl, id, *name, *typ, *size, *color, *image)
	case "rm":
		id, perr := argID()
		if perr != nil {
			err = perr
			break
		}
		err = ctrl.Delete(ctx, id, fmt.Sprintf("#%d", id))
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "wardrobe: %v\n", err)
		os.Exit(1)
	}
}

func showMe(ctx context.Context, ctrl *client.Controller) error {
	u, err := ctrl.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s <%s> (%s)\n", u.GivenName, u.FamilyName, u.Email, u.ID)
	return nil
}

func listItems(ctx context.Context, ctrl *client.Controller) error {
	items, err := ctrl.Items(ctx)
	if err != nil {
		return err
	}
	for _, it := range items {
		fmt.Printf("%d\t%s\t%s\t%s\t%s\t%s\n", it.ID, it.Name, it.Type, it.Size, it.Color, it.ImageURL)
	}
	return nil
}

func showTotal(ctx context.Context, ctrl *client.Controller) error {
	total, err := ctrl.Total(ctx)
	if err != nil {
		return err
	}
	fmt.Println(total)
	return nil
}

func getItem(ctx context.Context, api *client.API) error {
	id, err := argID()
	if err != nil {
		return err
	}
	it, err := api.Item(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
		it.ID, it.Name, it.Type, it.Size, it.Color, it.ImageURL, it.CreatedAt.Format("2006-01-02"))
	return nil
}

// submit runs a create (id == 0) or edit through the controller. An edit
// without -image carries the stored image URL forward.
func submit(ctx context.Context, api *client.API, ctrl *client.Controller, id int64, name, typ, size, color, imagePath string) error {
	d := item.Draft{Name: name, Type: typ, Size: size, Color: color}

	session := client.NewSession()
	defer session.Reset()

	if imagePath != "" {
		f, err := loadFile(imagePath)
		if err != nil {
			return err
		}
		session.SelectFile(f)
	}

	if id == 0 {
		_, err := ctrl.SubmitCreate(ctx, session, d)
		return err
	}

	stored, err := api.Item(ctx, id)
	if err != nil {
		return err
	}
	d.ImageURL = stored.ImageURL

	_, err = ctrl.SubmitEdit(ctx, session, id, d)
	return err
}

func loadFile(path string) (*client.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return &client.File{
		Name:        path,
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

func argID() (int64, error) {
	if flag.NArg() < 2 {
		return 0, fmt.Errorf("missing item id")
	}
	id, err := strconv.ParseInt(flag.Arg(1), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", flag.Arg(1))
	}
	return id, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
