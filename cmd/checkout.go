package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chrisdamba/foodcart/internal/checkout"
	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/chrisdamba/foodcart/internal/orderservice"
	"github.com/chrisdamba/foodcart/internal/output"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout <scenario-file>",
	Short: "Replay a scripted cart and checkout scenario",
	Long: `Replays the steps of a YAML or JSON scenario against a checkout session
and prints the cart, totals and submission state after every step.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckout,
}

type scenario struct {
	Time       time.Time           `json:"time"` // clock for opening hours; now when unset
	Restaurant *models.Restaurant  `json:"restaurant"`
	Menu       []models.MenuItem   `json:"menu"`
	Customer   models.CustomerInfo `json:"customer"`
	Steps      []scenarioStep      `json:"steps"`
}

type scenarioStep struct {
	Action         string                 `json:"action"` // add, update, remove, clear, order_type, submit, teardown
	Item           string                 `json:"item"`
	Quantity       int                    `json:"quantity"`
	Line           int                    `json:"line"` // 1-based position in the cart
	Customizations []models.Customization `json:"customizations"`
	OrderType      models.OrderType       `json:"order_type"`
	Customer       *models.CustomerInfo   `json:"customer"`
}

func runCheckout(cmd *cobra.Command, args []string) error {
	cfg, err := models.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	sc, err := loadScenario(args[0])
	if err != nil {
		return err
	}

	dest, err := output.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer func() {
		if err := dest.Close(); err != nil {
			logger.Error("failed to close output", zap.Error(err))
		}
	}()

	opts := []orderservice.Option{orderservice.WithPublisher(dest)}
	if !sc.Time.IsZero() {
		opts = append(opts, orderservice.WithClock(func() time.Time { return sc.Time }))
	}
	svc := orderservice.NewService(cfg, logger, opts...)

	return runScenario(cmd.Context(), sc, svc, cfg, cmd.OutOrStdout())
}

// loadScenario reads a scenario with its own viper instance so it does not
// mix with the application config.
func loadScenario(path string) (*scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var sc scenario
	err := v.Unmarshal(&sc, func(c *mapstructure.DecoderConfig) {
		c.TagName = "json"
		c.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			c.DecodeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &sc, nil
}

func runScenario(ctx context.Context, sc *scenario, svc checkout.OrderService, cfg *models.Config, w io.Writer) error {
	menu := make(map[string]models.MenuItem, len(sc.Menu))
	for _, item := range sc.Menu {
		menu[item.ID] = item
	}

	session := checkout.NewSession(svc,
		checkout.WithLogger(logger),
		checkout.WithRestaurant(sc.Restaurant),
		checkout.WithSubmitTimeout(cfg.SubmitTimeout),
		checkout.WithDeliveryEstimate(cfg.DefaultDeliveryEstimate),
		checkout.WithOnSubmitted(func(order models.Order, result models.SubmitResult) {
			fmt.Fprintf(w, "  placed order %s, total %.2f, ready in %s\n", result.OrderID, order.Total, order.EstimatedDeliveryTime)
		}),
	)

	for i, step := range sc.Steps {
		fmt.Fprintf(w, "step %d: %s\n", i+1, describeStep(step))
		if err := applyStep(ctx, session, menu, sc.Customer, step); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		printSession(w, session)
	}
	return nil
}

func applyStep(ctx context.Context, session *checkout.Session, menu map[string]models.MenuItem, customer models.CustomerInfo, step scenarioStep) error {
	switch step.Action {
	case "add":
		item, ok := menu[step.Item]
		if !ok {
			return fmt.Errorf("unknown menu item %q", step.Item)
		}
		customizations, err := resolveCustomizations(item, step.Customizations)
		if err != nil {
			return err
		}
		qty := step.Quantity
		if qty == 0 {
			qty = 1
		}
		_, err = session.AddItem(item, qty, customizations)
		return err
	case "update", "remove":
		lineID, err := lineAt(session, step.Line)
		if err != nil {
			return err
		}
		if step.Action == "remove" {
			session.RemoveItem(lineID)
		} else {
			session.UpdateQuantity(lineID, step.Quantity)
		}
	case "clear":
		session.Clear()
	case "order_type":
		if !step.OrderType.Valid() {
			return fmt.Errorf("unknown order type %q", step.OrderType)
		}
		session.SetOrderType(step.OrderType)
	case "submit":
		if step.Customer != nil {
			customer = *step.Customer
		}
		orderType := step.OrderType
		if orderType == "" {
			orderType = session.OrderType()
		}
		session.SubmitOrder(ctx, customer, orderType)
	case "teardown":
		session.Teardown()
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
	return nil
}

// resolveCustomizations fills labels and price deltas from the menu item's
// options.
func resolveCustomizations(item models.MenuItem, picks []models.Customization) ([]models.Customization, error) {
	out := make([]models.Customization, 0, len(picks))
	for _, p := range picks {
		opt := item.Option(p.OptionID)
		if opt == nil {
			return nil, fmt.Errorf("%s has no option %q", item.Name, p.OptionID)
		}
		choice := opt.Choice(p.ChoiceID)
		if choice == nil {
			return nil, fmt.Errorf("%s option %q has no choice %q", item.Name, p.OptionID, p.ChoiceID)
		}
		out = append(out, models.Customization{
			OptionID:   opt.ID,
			ChoiceID:   choice.ID,
			Label:      opt.Name + ": " + choice.Name,
			PriceDelta: choice.PriceDelta,
		})
	}
	return out, nil
}

func lineAt(session *checkout.Session, position int) (string, error) {
	lines := session.Cart()
	if position < 1 || position > len(lines) {
		return "", fmt.Errorf("no cart line at position %d", position)
	}
	return lines[position-1].ID, nil
}

func describeStep(step scenarioStep) string {
	switch step.Action {
	case "add":
		return fmt.Sprintf("add %s x%d", step.Item, max(step.Quantity, 1))
	case "update":
		return fmt.Sprintf("set line %d to %d", step.Line, step.Quantity)
	case "remove":
		return fmt.Sprintf("remove line %d", step.Line)
	case "order_type":
		return "switch to " + string(step.OrderType)
	}
	return step.Action
}

func printSession(w io.Writer, session *checkout.Session) {
	lines := session.Cart()
	if len(lines) == 0 {
		fmt.Fprintln(w, "  cart is empty")
	}
	for i, line := range lines {
		labels := make([]string, 0, len(line.Customizations))
		for _, c := range line.Customizations {
			labels = append(labels, c.Label)
		}
		extra := ""
		if len(labels) > 0 {
			extra = " (" + strings.Join(labels, ", ") + ")"
		}
		fmt.Fprintf(w, "  %d. %s%s x%d @ %.2f = %.2f\n", i+1, line.Name, extra, line.Quantity, line.UnitPrice, line.LineTotal())
	}

	t := session.Totals()
	fmt.Fprintf(w, "  items %d  subtotal %.2f  tax %.2f  delivery %.2f  service %.2f  discount %.2f  total %.2f\n",
		session.CartItemCount(), t.Subtotal, t.Tax, t.DeliveryFee, t.ServiceFee, t.Discount, t.Total)

	state := session.Submission()
	fmt.Fprintf(w, "  %s, open %t, estimate %s, checkout allowed %t, state %s",
		session.OrderType(), session.IsRestaurantOpen(), session.EstimatedDeliveryTime(), session.CanCheckout(), state.Status)
	if state.Reason != "" {
		fmt.Fprintf(w, " (%s)", state.Reason)
	}
	fmt.Fprintln(w)
}
