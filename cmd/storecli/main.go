// storecli is a CLI storefront for testing the tgstore service.
// Each command performs a single operation, making it composable for scripts.
//
// Commands:
//
//	storecli products -server URL [-page N] [-category ID]
//	storecli categories -server URL
//	storecli order -server URL -items 7:2,9:1 [-method cod|telegram] [options]
//
// Examples:
//
//	storecli products -server http://localhost:8080
//	storecli order -server http://localhost:8080 -items 7:2 -method cod \
//	    -name "Alice" -phone 555-0101 -street "1 Main St" -city Hanoi \
//	    -post 100000 -country VN
//	storecli order -server http://localhost:8080 -items 7:2 -method telegram -zone 3
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"tgstore/internal/checkout"
	"tgstore/internal/clientinfo"
	"tgstore/internal/model"
	"tgstore/internal/session"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Global flags (apply to all commands)
var (
	serverURL string
	quiet     bool
	noColor   bool
)

// ANSI color codes
var (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		disableColors()
	}
}

func disableColors() {
	colorReset, colorRed, colorGreen = "", "", ""
	colorYellow, colorCyan, colorBold = "", "", ""
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "products":
		runProducts(args)
	case "categories":
		runCategories(args)
	case "order":
		runOrder(args)
	case "-h", "-help", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `storecli - storefront test tool

Usage:
  storecli <command> [options]

Commands:
  products    List one catalog page
  categories  List product categories
  order       Build a cart and place an order

Examples:
  storecli products -server http://localhost:8080 -page 1
  storecli order -server http://localhost:8080 -items 7:2,9:1 -method cod \
      -name "Alice" -phone 555-0101 -street "1 Main St" -city Hanoi \
      -post 100000 -country VN

Run 'storecli <command> -h' for command-specific options.
`)
}

// =============================================================================
// PRODUCTS COMMAND
// =============================================================================

func runProducts(args []string) {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	fs.StringVar(&serverURL, "server", "http://localhost:8080", "tgstore base URL")
	page := fs.Int("page", 1, "Catalog page (1-based)")
	perPage := fs.Int("per-page", 10, "Products per page")
	category := fs.Int("category", 0, "Category ID filter (0 = all)")
	fs.BoolVar(&quiet, "q", false, "Quiet mode - output raw JSON only")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored output")
	fs.Parse(args)
	if noColor {
		disableColors()
	}

	query := fmt.Sprintf("page=%d&per_page=%d", *page, *perPage)
	if *category > 0 {
		query += fmt.Sprintf("&category=%d", *category)
	}

	var products []model.Product
	if err := getJSON("/api/products?"+query, &products); err != nil {
		fatal("Fetching products: %v", err)
	}

	if quiet {
		json.NewEncoder(os.Stdout).Encode(products)
		return
	}
	if len(products) == 0 {
		printInfo("No products on page %d", *page)
		return
	}
	for _, p := range products {
		fmt.Printf("%s%4d%s  %-30s %s%s%s\n",
			colorCyan, p.ID, colorReset, p.Name, colorGreen, p.Price, colorReset)
	}
}

// =============================================================================
// CATEGORIES COMMAND
// =============================================================================

func runCategories(args []string) {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	fs.StringVar(&serverURL, "server", "http://localhost:8080", "tgstore base URL")
	fs.BoolVar(&quiet, "q", false, "Quiet mode - output raw JSON only")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored output")
	fs.Parse(args)
	if noColor {
		disableColors()
	}

	var categories []model.Category
	if err := getJSON("/api/categories", &categories); err != nil {
		fatal("Fetching categories: %v", err)
	}

	if quiet {
		json.NewEncoder(os.Stdout).Encode(categories)
		return
	}
	for _, c := range categories {
		fmt.Printf("%s%4d%s  %-30s (%d products)\n",
			colorCyan, c.ID, colorReset, c.Name, c.Count)
	}
}

// =============================================================================
// ORDER COMMAND
// =============================================================================

func runOrder(args []string) {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	fs.StringVar(&serverURL, "server", "http://localhost:8080", "tgstore base URL")
	items := fs.String("items", "", "Cart items as id:qty[,id:qty...] (required)")
	method := fs.String("method", "cod", "Payment method: cod or telegram")
	comment := fs.String("comment", "", "Order comment")
	zone := fs.Int("zone", 1, "Shipping zone ID")
	name := fs.String("name", "", "Recipient name")
	phone := fs.String("phone", "", "Recipient phone")
	street := fs.String("street", "", "Street line 1")
	city := fs.String("city", "", "City")
	post := fs.String("post", "", "Postal code")
	country := fs.String("country", "", "Country code")
	version := fs.String("app-version", "7.2", "Reported WebApp version")
	fs.BoolVar(&quiet, "q", false, "Quiet mode - only output order id")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored output")
	fs.Parse(args)
	if noColor {
		disableColors()
	}

	if *items == "" {
		fatal("-items is required")
	}

	// Build the session the way the mini-app would: start from the
	// initial state and dispatch actions through the reducer.
	state := session.New(*name)
	state = session.Reduce(state, session.SetPaymentMethod{Method: model.PaymentMethod(*method)})
	state = session.Reduce(state, session.SetComment{Text: *comment})
	if *name != "" {
		state = session.Reduce(state, session.SetShippingField{Field: "name", Value: *name})
	}
	if *phone != "" {
		state = session.Reduce(state, session.SetShippingField{Field: "phone", Value: *phone})
	}
	for field, value := range map[string]string{
		"street_line1": *street,
		"city":         *city,
		"post_code":    *post,
		"country_code": *country,
	} {
		if value != "" {
			state = session.Reduce(state, session.SetShippingAddressField{Field: field, Value: value})
		}
	}
	state.ShippingZone = *zone

	for _, spec := range strings.Split(*items, ",") {
		id, qty, err := parseItemSpec(spec)
		if err != nil {
			fatal("Invalid item %q: %v", spec, err)
		}
		product := model.Product{ID: id, Name: fmt.Sprintf("product-%d", id)}
		for range qty {
			state = session.Reduce(state, session.Increment{Product: product})
		}
	}

	runtime := &cliRuntime{version: *version}
	api := checkout.NewClient(serverURL, clientinfo.Info{Platform: "cli", Version: *version})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := checkout.Checkout(ctx, state, runtime, api); err != nil {
		fatal("Checkout failed: %v", err)
	}
}

// cliRuntime implements checkout.Runtime on a terminal.
type cliRuntime struct {
	version string
}

func (r *cliRuntime) Version() string          { return r.version }
func (r *cliRuntime) Identity() (int64, int64) { return 0, 0 }
func (r *cliRuntime) ShowProgress()            {}
func (r *cliRuntime) HideProgress()            {}

func (r *cliRuntime) ShowAlert(text string) {
	if !quiet {
		fmt.Printf("%s%s%s\n", colorBold, text, colorReset)
	}
}

func (r *cliRuntime) HapticError()   { printError("payment failed") }
func (r *cliRuntime) HapticWarning() { printWarn("payment not completed") }

func (r *cliRuntime) OpenInvoice(link string, onStatus func(checkout.InvoiceStatus)) {
	// A terminal cannot open the invoice sheet; print the link for the
	// operator and report the payment as still pending.
	if quiet {
		fmt.Println(link)
	} else {
		printInfo("Open this invoice link to pay: %s", link)
	}
	onStatus(checkout.StatusPending)
}

func (r *cliRuntime) Close() {
	if !quiet {
		printInfo("Session complete")
	}
}

// parseItemSpec parses "id:qty" (qty defaults to 1).
func parseItemSpec(spec string) (id, qty int, err error) {
	part, qtyPart, found := strings.Cut(strings.TrimSpace(spec), ":")
	id, err = strconv.Atoi(part)
	if err != nil || id <= 0 {
		return 0, 0, fmt.Errorf("bad product id")
	}
	qty = 1
	if found {
		qty, err = strconv.Atoi(qtyPart)
		if err != nil || qty <= 0 {
			return 0, 0, fmt.Errorf("bad quantity")
		}
	}
	return id, qty, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func getJSON(path string, out any) error {
	resp, err := httpClient.Get(strings.TrimSuffix(serverURL, "/") + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.Unmarshal(body, out)
}

func printInfo(format string, args ...any) {
	fmt.Printf(colorCyan+format+colorReset+"\n", args...)
}

func printWarn(format string, args ...any) {
	fmt.Printf(colorYellow+format+colorReset+"\n", args...)
}

func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+format+colorReset+"\n", args...)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"Error: "+format+colorReset+"\n", args...)
	os.Exit(1)
}
