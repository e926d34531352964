// Command kiosk is a terminal storefront for placing take-away orders. It
// drives the checkout core: browse the menu, build a cart, submit an order,
// hand off to the payment provider and confirm payment.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/entusanojuicio/storefront/internal/api"
	"github.com/entusanojuicio/storefront/internal/cart"
	"github.com/entusanojuicio/storefront/internal/checkout"
	"github.com/entusanojuicio/storefront/internal/domain"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	backendURL := getEnv("BACKEND_URL", "http://localhost:8080")
	clientID := getEnv("KIOSK_CLIENT_ID", uuid.New().String())
	redisAddr := os.Getenv("REDIS_ADDR")

	var snaps cart.SnapshotStore
	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer client.Close()
		snaps = cart.NewRedisSnapshots(client, clientID)
	} else {
		snaps = cart.NewMemorySnapshots()
	}

	store := cart.NewStore(snaps)
	if err := store.Load(context.Background()); err != nil {
		log.Printf("starting with an empty cart: %v", err)
	}

	client := api.NewClient(backendURL)
	submitter := checkout.NewSubmitter(client)
	initiator := checkout.NewInitiator(client, store, backendURL)
	poller := checkout.NewPoller(client)

	// An order id from a provider cancel URL resumes payment against the
	// existing order instead of creating a new one.
	submitter.Resume(os.Getenv("RESUME_ORDER_ID"))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	k := &kiosk{
		in:        bufio.NewScanner(os.Stdin),
		client:    client,
		store:     store,
		submitter: submitter,
		initiator: initiator,
		poller:    poller,
	}
	k.run(ctx)
}

type kiosk struct {
	in        *bufio.Scanner
	client    *api.Client
	store     *cart.Store
	submitter *checkout.Submitter
	initiator *checkout.Initiator
	poller    *checkout.Poller
}

func (k *kiosk) run(ctx context.Context) {
	fmt.Println("En Tu Sano Juicio — take-away kiosk")
	for {
		fmt.Println("\n[m]enu  [c]art  [a]dd <n>  [r]emove <n>  [q]ty <n> <count>  check[o]ut  e[x]it")
		fmt.Print("> ")
		line, ok := k.read(ctx)
		if !ok {
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "m":
			k.showMenu(ctx)
		case "c":
			k.showCart()
		case "a":
			k.addItem(ctx, fields)
		case "r":
			k.removeItem(fields)
		case "q":
			k.updateQuantity(fields)
		case "o":
			k.checkout(ctx)
		case "x":
			return
		}
	}
}

func (k *kiosk) read(ctx context.Context) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	if !k.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(k.in.Text()), true
}

func (k *kiosk) menu(ctx context.Context) []domain.Product {
	products, err := k.client.Products(ctx)
	if err != nil {
		fmt.Printf("could not load the menu: %v\n", err)
		return nil
	}
	return products
}

func (k *kiosk) showMenu(ctx context.Context) {
	for i, p := range k.menu(ctx) {
		fmt.Printf("%2d. %-30s %6.2f€  (%s)\n", i+1, p.Name, p.Price, p.Category)
	}
}

func (k *kiosk) showCart() {
	lines := k.store.Lines()
	if len(lines) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, l := range lines {
		fmt.Printf("  %-30s x%d  %6.2f€\n", l.ProductName, l.Quantity, l.Subtotal())
	}
	fmt.Printf("  total: %.2f€ (%d items)\n", k.store.Total(), k.store.ItemCount())
}

func (k *kiosk) addItem(ctx context.Context, fields []string) {
	products := k.menu(ctx)
	idx, err := menuIndex(fields, 1, len(products))
	if err != nil {
		fmt.Println(err)
		return
	}
	k.store.AddItem(products[idx])
	fmt.Printf("added %s\n", products[idx].Name)
}

func (k *kiosk) removeItem(fields []string) {
	lines := k.store.Lines()
	idx, err := menuIndex(fields, 1, len(lines))
	if err != nil {
		fmt.Println(err)
		return
	}
	k.store.RemoveItem(lines[idx].ProductID)
}

func (k *kiosk) updateQuantity(fields []string) {
	lines := k.store.Lines()
	idx, err := menuIndex(fields, 2, len(lines))
	if err != nil {
		fmt.Println(err)
		return
	}
	count, err := strconv.Atoi(fields[2])
	if err != nil {
		fmt.Println("count must be a number")
		return
	}
	k.store.UpdateQuantity(lines[idx].ProductID, count)
}

func menuIndex(fields []string, argCount, max int) (int, error) {
	if len(fields) < argCount+1 {
		return 0, fmt.Errorf("usage: %s <n>", fields[0])
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 || n > max {
		return 0, fmt.Errorf("pick a number between 1 and %d", max)
	}
	return n - 1, nil
}

func (k *kiosk) checkout(ctx context.Context) {
	if k.store.IsEmpty() && k.submitter.OrderID() == "" {
		fmt.Println("cart is empty")
		return
	}

	contact := k.collectContact(ctx)
	if contact == nil {
		return
	}

	orderID, err := k.submitter.Submit(ctx, k.store.Lines(), *contact)
	if err != nil {
		fmt.Printf("could not create the order: %v\n", err)
		return
	}
	fmt.Printf("order %s created\n", orderID)

	fmt.Print("pay with [s]tripe or [p]aypal? ")
	choice, ok := k.read(ctx)
	if !ok {
		return
	}

	switch choice {
	case "p":
		// The embedded flow confirms the amount in the widget; approval
		// resolves to success with no status poll.
		fmt.Printf("confirm payment of %.2f€ via PayPal? [y/n] ", k.store.Total())
		if answer, _ := k.read(ctx); answer != "y" {
			return
		}
		handoff, errStart := k.initiator.Start(ctx, orderID, domain.ProviderPayPal)
		if errStart != nil {
			fmt.Printf("payment failed to start: %v\n", errStart)
			return
		}
		k.showResult(&checkout.Result{State: checkout.StateSuccess}, handoff.Session)

	default:
		handoff, errStart := k.initiator.Start(ctx, orderID, domain.ProviderStripe)
		if errStart != nil {
			fmt.Printf("payment failed to start: %v (your cart is untouched, try again)\n", errStart)
			return
		}
		fmt.Printf("complete your payment at:\n  %s\n", handoff.RedirectURL)
		fmt.Println("waiting for confirmation...")

		k.poller.OnChange(func(state checkout.State, attempts int) {
			if state == checkout.StateChecking {
				fmt.Printf("  checking payment status (attempt %d)...\n", attempts+1)
			}
		})
		result, errRun := k.poller.Run(ctx, handoff.Session)
		if errRun != nil {
			log.Printf("confirmation abandoned: %v", errRun)
			return
		}
		k.showResult(result, handoff.Session)
	}
}

func (k *kiosk) collectContact(ctx context.Context) *domain.ContactInfo {
	var contact domain.ContactInfo
	prompts := []struct {
		label string
		dest  *string
	}{
		{"your name", &contact.CustomerName},
		{"email", &contact.CustomerEmail},
		{"phone", &contact.CustomerPhone},
	}
	for _, p := range prompts {
		fmt.Printf("%s: ", p.label)
		value, ok := k.read(ctx)
		if !ok {
			return nil
		}
		*p.dest = value
	}

	slots := checkout.PickupSlots(time.Now())
	fmt.Printf("pickup time %v: ", slots)
	slot, ok := k.read(ctx)
	if !ok {
		return nil
	}
	contact.PickupTime = slot

	fmt.Print("notes (optional): ")
	notes, ok := k.read(ctx)
	if !ok {
		return nil
	}
	contact.Notes = notes
	return &contact
}

func (k *kiosk) showResult(result *checkout.Result, session domain.PaymentSession) {
	switch result.State {
	case checkout.StateSuccess:
		fmt.Println("payment completed — your order is confirmed, see you soon!")
	case checkout.StatePending:
		fmt.Println("payment still processing — you will receive a confirmation email shortly")
	default:
		if result.Cause != nil {
			fmt.Printf("payment error: %v\n", result.Cause)
		} else {
			fmt.Println("payment error — please retry the checkout")
		}
		if session.OrderID != "" {
			fmt.Printf("retry with RESUME_ORDER_ID=%s\n", session.OrderID)
		}
	}
}
