// Command storefront is a terminal client for the jewelry storefront API.
//
// Usage:
//
//	storefront serve                 run a local in-memory backend
//	storefront register              create an account
//	storefront login                 authenticate and persist the session
//	storefront logout                drop the persisted session
//	storefront products [flags]      browse the catalog
//	storefront cart <subcommand>     show, add, update, remove, clear
//	storefront wishlist <subcommand> show, add, remove
//	storefront orders                list past orders
//	storefront checkout              run the two-step checkout
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jewelcca/storefront/internal/api"
	"github.com/jewelcca/storefront/internal/apitest"
	"github.com/jewelcca/storefront/internal/cart"
	"github.com/jewelcca/storefront/internal/catalog"
	"github.com/jewelcca/storefront/internal/checkout"
	"github.com/jewelcca/storefront/internal/config"
	"github.com/jewelcca/storefront/internal/domain"
	"github.com/jewelcca/storefront/internal/session"
	"github.com/jewelcca/storefront/internal/wishlist"
	"github.com/jewelcca/storefront/pkg/httpclient"
	"github.com/jewelcca/storefront/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	log := logger.New("storefront", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := session.NewPersistent(credentialsPath(cfg))
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.RequestTimeout
	httpCfg.MaxRetries = cfg.MaxRetries
	client := api.New(cfg.APIURL, httpCfg, sess, log)
	cartStore := cart.NewStore(client, sess, log)
	wishStore := wishlist.NewStore(client, sess, log)

	app := &app{
		cfg:  cfg,
		log:  log,
		sess: sess,
		api:  client,
		cart: cartStore,
		wish: wishStore,
	}

	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	cfg  *config.Config
	log  *slog.Logger
	sess *session.Store
	api  *api.Client
	cart *cart.Store
	wish *wishlist.Store
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "serve":
		return a.serve(ctx, args)
	case "register":
		return a.register(ctx)
	case "login":
		return a.login(ctx)
	case "logout":
		a.sess.Clear()
		fmt.Println("logged out")
		return nil
	case "products":
		return a.products(ctx, args)
	case "cart":
		return a.cartCmd(ctx, args)
	case "wishlist":
		return a.wishlistCmd(ctx, args)
	case "orders":
		return a.orders(ctx)
	case "checkout":
		return a.checkout(ctx)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// serve runs the in-memory backend with demo data, plus a metrics endpoint.
func (a *app) serve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":9090", "listen address")
	_ = fs.Parse(args)

	backend := apitest.New()
	seedDemoData(backend)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", backend.Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.log.Info("local backend listening", "addr", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *app) register(ctx context.Context) error {
	r := bufio.NewReader(os.Stdin)
	in := api.RegisterInput{
		Email:     prompt(r, "email"),
		Password:  prompt(r, "password"),
		FirstName: prompt(r, "first name"),
		LastName:  prompt(r, "last name"),
	}

	user, err := a.api.Register(ctx, in)
	if err != nil {
		return err
	}
	fmt.Printf("welcome, %s\n", user.FullName())
	return nil
}

func (a *app) login(ctx context.Context) error {
	r := bufio.NewReader(os.Stdin)
	in := api.LoginInput{
		Email:    prompt(r, "email"),
		Password: prompt(r, "password"),
	}

	user, err := a.api.Login(ctx, in)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s\n", user.Email)
	return nil
}

func (a *app) products(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	category := fs.String("category", "", "filter by category slug")
	search := fs.String("search", "", "search product names")
	page := fs.Int("page", 0, "zero-based page")
	sortKey := fs.String("sort", "", "sort: price-asc, price-desc, rating, name")
	inStock := fs.Bool("instock", false, "only show products in stock")
	_ = fs.Parse(args)

	result, err := a.api.ListProducts(ctx, api.ProductQuery{
		Category: *category,
		Search:   *search,
		Page:     *page,
	})
	if err != nil {
		return err
	}

	listing := result.Content
	if *inStock {
		listing = catalog.FilterInStock(listing)
	}
	if *sortKey != "" {
		listing = catalog.SortBy(listing, *sortKey)
	}

	for _, p := range listing {
		stock := "in stock"
		if !p.InStock {
			stock = "out of stock"
		}
		fmt.Printf("%-36s  %-30s  %8.2f  %s\n", p.ID, p.Name, p.Price, stock)
	}
	fmt.Printf("page %d of %d (%d products)\n", result.Page+1, result.TotalPages, result.TotalElements)
	return nil
}

func (a *app) cartCmd(ctx context.Context, args []string) error {
	if err := a.cart.Refresh(ctx); err != nil {
		return err
	}

	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "show":
		return a.printCart()
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: cart add <product-id> [quantity]")
		}
		qty := 1
		if len(args) > 2 {
			n, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[2])
			}
			qty = n
		}
		if err := a.cart.AddItem(ctx, args[1], qty); err != nil {
			return err
		}
		return a.printCart()
	case "update":
		if len(args) < 3 {
			return fmt.Errorf("usage: cart update <product-id> <quantity>")
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}
		if err := a.cart.UpdateQuantity(ctx, args[1], qty); err != nil {
			return err
		}
		return a.printCart()
	case "remove":
		if len(args) < 2 {
			return fmt.Errorf("usage: cart remove <product-id>")
		}
		if err := a.cart.RemoveItem(ctx, args[1]); err != nil {
			return err
		}
		return a.printCart()
	case "clear":
		return a.cart.Clear(ctx)
	default:
		return fmt.Errorf("unknown cart subcommand %q", sub)
	}
}

func (a *app) printCart() error {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Println("cart is empty")
		return nil
	}

	for _, item := range items {
		fmt.Printf("%-36s  %-30s  x%d  %8.2f\n",
			item.ID, item.Product.Name, item.Quantity, item.Product.Price*float64(item.Quantity))
	}

	q := a.cart.Quote()
	fmt.Printf("subtotal %.2f  shipping %.2f  tax %.2f  total %.2f\n",
		q.Subtotal, q.Shipping, q.Tax, q.Total)
	return nil
}

func (a *app) wishlistCmd(ctx context.Context, args []string) error {
	if err := a.wish.Refresh(ctx); err != nil {
		return err
	}

	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "show":
		for _, item := range a.wish.Items() {
			fmt.Printf("%-36s  %-30s  %8.2f\n", item.Product.ID, item.Product.Name, item.Product.Price)
		}
		return nil
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: wishlist add <product-id>")
		}
		return a.wish.Add(ctx, args[1])
	case "remove":
		if len(args) < 2 {
			return fmt.Errorf("usage: wishlist remove <product-id>")
		}
		return a.wish.Remove(ctx, args[1])
	default:
		return fmt.Errorf("unknown wishlist subcommand %q", sub)
	}
}

func (a *app) orders(ctx context.Context) error {
	result, err := a.api.ListOrders(ctx, 0, 20)
	if err != nil {
		return err
	}

	if len(result.Content) == 0 {
		fmt.Println("no orders yet")
		return nil
	}
	for _, o := range result.Content {
		fmt.Printf("%-20s  %-10s  %8.2f  %s\n",
			o.OrderNumber, o.Status, o.TotalAmount, o.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func (a *app) checkout(ctx context.Context) error {
	r := bufio.NewReader(os.Stdin)
	flow := checkout.NewFlow(a.api, a.cart, a.sess, &terminalWidget{in: r}, logger.New("checkout", a.cfg.LogLevel))

	if err := flow.Begin(ctx); err != nil {
		return err
	}

	info := domain.ShippingInfo{
		FirstName: prompt(r, "first name"),
		LastName:  prompt(r, "last name"),
		Email:     prompt(r, "email"),
		Phone:     prompt(r, "phone"),
		Street:    prompt(r, "street"),
		City:      prompt(r, "city"),
		State:     prompt(r, "state"),
		ZipCode:   prompt(r, "zip code"),
		Country:   prompt(r, "country"),
	}
	if err := flow.SubmitShipping(info); err != nil {
		return err
	}

	choice := strings.ToUpper(prompt(r, "payment method (CARD/UPI/COD, default CARD)"))
	method := checkout.DefaultPaymentMethod
	if choice != "" {
		method = domain.PaymentMethod(choice)
	}
	order, err := flow.SubmitPayment(ctx, method)
	if err != nil {
		if msg := flow.FailureMessage(); msg != "" {
			fmt.Println(msg)
		}
		return err
	}

	fmt.Printf("order %s placed, total %.2f\n", order.OrderNumber, order.TotalAmount)
	return nil
}

// terminalWidget collects the provider confirmation interactively. It stands
// in for the provider's hosted checkout when running from a terminal.
type terminalWidget struct {
	in *bufio.Reader
}

func (w *terminalWidget) OpenCheckout(ctx context.Context, order *domain.ProviderOrder, prefill checkout.Prefill) (*domain.PaymentConfirmation, error) {
	fmt.Printf("pay %.2f %s via provider order %s (key %s)\n",
		order.Amount, order.Currency, order.ProviderOrderID, order.KeyID)

	paymentID := prompt(w.in, "provider payment id (empty to abandon)")
	if paymentID == "" {
		return nil, fmt.Errorf("payment abandoned")
	}
	signature := prompt(w.in, "signature")

	return &domain.PaymentConfirmation{
		ProviderOrderID:   order.ProviderOrderID,
		ProviderPaymentID: paymentID,
		Signature:         signature,
	}, nil
}

func prompt(r *bufio.Reader, label string) string {
	fmt.Printf("%s: ", label)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

func credentialsPath(cfg *config.Config) string {
	if cfg.CredentialsFile != "" {
		return cfg.CredentialsFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".storefront", "session.json")
}

func seedDemoData(backend *apitest.Server) {
	backend.SeedUser("demo@example.com", "demo123", domain.RoleUser)
	backend.SeedUser("admin@example.com", "admin123", domain.RoleAdmin)

	backend.SeedCategory(domain.Category{Name: "Rings"})
	backend.SeedCategory(domain.Category{Name: "Necklaces"})
	backend.SeedCategory(domain.Category{Name: "Earrings"})

	backend.SeedProduct(domain.Product{
		Name: "Aurora Diamond Ring", CategorySlug: "rings",
		Price: 899, OriginalPrice: 1099, InStock: true, StockQuantity: 4,
		Rating: 4.8, Materials: []string{"gold", "diamond"}, Tags: []string{"featured"},
	})
	backend.SeedProduct(domain.Product{
		Name: "Pearl Strand Necklace", CategorySlug: "necklaces",
		Price: 320, InStock: true, StockQuantity: 12,
		Rating: 4.5, Materials: []string{"pearl", "silver"},
	})
	backend.SeedProduct(domain.Product{
		Name: "Silver Hoop Earrings", CategorySlug: "earrings",
		Price: 85, InStock: true, StockQuantity: 30,
		Rating: 4.2, Materials: []string{"silver"},
	})
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: storefront <command>

commands:
  serve      run a local in-memory backend with demo data
  register   create an account
  login      authenticate
  logout     drop the stored session
  products   browse the catalog
  cart       show | add | update | remove | clear
  wishlist   show | add | remove
  orders     list past orders
  checkout   place an order`)
}
