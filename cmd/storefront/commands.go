package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"amber-storefront/internal/backend"
	"amber-storefront/internal/domain"
	"amber-storefront/internal/messaging"
	"amber-storefront/internal/order"
	"amber-storefront/internal/service"
	"amber-storefront/internal/validation"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "AMBER INFUSIÓN coffee storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print results as JSON")
	root.PersistentFlags().StringVar(&opts.storage, "storage", "file", "device storage driver: file, memory, postgres or redis")

	root.AddCommand(
		newLoginCmd(opts),
		newRegisterCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newProductsCmd(opts),
		newCheckoutCmd(opts),
		newOrdersCmd(opts),
		newOrderCmd(opts),
		newOrderStatusCmd(opts),
		newCancelCmd(opts),
		newProductCmd(opts),
		newSalesReportCmd(opts),
		newLocationCmd(opts),
		newSocialCmd(opts),
	)
	return root
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session on this device",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			state, err := a.auth.Login(ctx, email, password)
			if err != nil {
				return userError(err)
			}
			if a.opts.json {
				return writeJSON(cmd.OutOrStdout(), state)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "¡Bienvenido, %s!\n", state.User.FullName())
			if state.IsAdmin() {
				fmt.Fprintln(cmd.OutOrStdout(), "Sesión de administrador")
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	var form validation.RegisterForm

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			if form.ConfirmPassword == "" {
				form.ConfirmPassword = form.Password
			}
			state, err := a.auth.Register(ctx, form)
			if err != nil {
				return userError(err)
			}
			if a.opts.json {
				return writeJSON(cmd.OutOrStdout(), state)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cuenta creada. ¡Bienvenido, %s!\n", state.User.FullName())
			return nil
		}),
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "first name")
	cmd.Flags().StringVar(&form.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "10 digit phone number")
	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "account password")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "repeat the password (defaults to --password)")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear device storage",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			if err := a.auth.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sesión cerrada")
			return nil
		}),
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in profile",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			user, err := a.auth.Profile(ctx)
			if err != nil {
				return userError(err)
			}
			if a.opts.json {
				return writeJSON(cmd.OutOrStdout(), user)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s <%s>\n", user.FullName(), user.Email)
			if user.Phone != "" {
				fmt.Fprintf(out, "Teléfono: %s\n", user.Phone)
			}
			fmt.Fprintf(out, "Rol: %s\n", user.Role)
			return nil
		}),
	}
}

func newProductsCmd(opts *rootOptions) *cobra.Command {
	var search, category, filter string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			var view service.CatalogView
			switch {
			case search != "":
				view = a.catalog.Search(ctx, search)
			default:
				view = a.catalog.FilterCategory(ctx, category)
			}
			if filter != "" {
				view.Products = a.catalog.Filter(filter)
			}

			if a.opts.json {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			if view.Notice != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), view.Notice)
			}
			if len(view.Products) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No se encontraron productos")
				return nil
			}
			printProducts(cmd.OutOrStdout(), view.Products, a.cfg.Business.Currency)
			return nil
		}),
	}
	cmd.Flags().StringVar(&search, "search", "", "server-side search")
	cmd.Flags().StringVar(&category, "category", "", "category, or all")
	cmd.Flags().StringVar(&filter, "filter", "", "narrow the result by name or description")
	return cmd
}

// cartLine is one --item flag: id[:quantity[:pack]]
type cartLine struct {
	productID string
	quantity  int
	pack      string
}

func parseItem(raw string) (cartLine, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) > 3 || parts[0] == "" {
		return cartLine{}, fmt.Errorf("invalid item %q, want id[:quantity[:pack]]", raw)
	}

	line := cartLine{productID: parts[0], quantity: 1, pack: domain.DefaultPack}
	if len(parts) > 1 && parts[1] != "" {
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 1 {
			return cartLine{}, fmt.Errorf("invalid quantity in item %q", raw)
		}
		line.quantity = n
	}
	if len(parts) > 2 && parts[2] != "" {
		line.pack = parts[2]
	}
	return line, nil
}

func newCheckoutCmd(opts *rootOptions) *cobra.Command {
	var (
		items   []string
		address string
		info    string
		payment string
		open    bool
	)

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order and hand it to WhatsApp",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			if len(items) == 0 {
				return userError(service.ErrEmptyCart)
			}

			lines := make([]cartLine, 0, len(items))
			for _, raw := range items {
				line, err := parseItem(raw)
				if err != nil {
					return err
				}
				lines = append(lines, line)
			}

			view := a.catalog.Load(ctx, backend.ProductQuery{})
			if view.Notice != "" {
				return fmt.Errorf("no se pudo cargar el catálogo: %s", view.Notice)
			}
			for _, line := range lines {
				if _, err := a.cart.Add(line.productID, line.pack, line.quantity); err != nil {
					return fmt.Errorf("%s: %w", line.productID, userError(err))
				}
			}

			out := cmd.OutOrStdout()
			if !a.opts.json {
				fmt.Fprintln(out, "Tu pedido:")
				printCart(out, a.cart.View(), a.cfg.Business.Currency)
			}

			req := service.CheckoutRequest{
				Address:        address,
				AdditionalInfo: info,
				PaymentMethod:  messaging.PaymentMethod(payment),
			}
			if open {
				req.Launcher = messaging.NewWriterLauncher(out)
			}

			result, err := a.checkout.PlaceOrder(ctx, req)
			if err != nil {
				return userError(err)
			}
			if a.opts.json {
				return writeJSON(out, result)
			}

			fmt.Fprintf(out, "\n%s\n%s\n", result.Notice.Title, result.Notice.Body)
			fmt.Fprintf(out, "Número de pedido: %s\n", result.OrderID)
			if !result.Sent {
				fmt.Fprintf(out, "Enviar por WhatsApp: %s\n", result.Link.Web)
			}
			return nil
		}),
	}
	cmd.Flags().StringArrayVar(&items, "item", nil, "product to order as id[:quantity[:pack]], repeatable")
	cmd.Flags().StringVar(&address, "address", "", "delivery address")
	cmd.Flags().StringVar(&info, "info", "", "additional delivery details")
	cmd.Flags().StringVar(&payment, "payment", string(messaging.PaymentWhatsApp), "payment method: qr, card or whatsapp")
	cmd.Flags().BoolVar(&open, "open", false, "print the WhatsApp link to open in a browser")
	return cmd
}

func newOrdersCmd(opts *rootOptions) *cobra.Command {
	var q backend.OrderQuery

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			page, err := a.orders.List(ctx, q)
			if err != nil {
				return userError(err)
			}
			if a.opts.json {
				return writeJSON(cmd.OutOrStdout(), page)
			}
			if len(page.Orders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No hay pedidos")
				return nil
			}
			printOrders(cmd.OutOrStdout(), page, a.cfg.Business.Currency)
			return nil
		}),
	}
	cmd.Flags().StringVar(&q.Status, "status", "all", "status filter, or all")
	cmd.Flags().IntVar(&q.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&q.Limit, "limit", 10, "orders per page")
	return cmd
}

func newOrderCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "order <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			o, err := a.orders.Get(ctx, args[0])
			if err != nil {
				return userError(err)
			}
			actions := a.orders.Actions(o)
			if a.opts.json {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{"order": o, "actions": actions})
			}
			printOrder(cmd.OutOrStdout(), o, actions, a.cfg.Business.Currency)
			return nil
		}),
	}
}

func newOrderStatusCmd(opts *rootOptions) *cobra.Command {
	var current string

	cmd := &cobra.Command{
		Use:   "order-status <id> <status>",
		Short: "Move an order to a new status (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: run(opts, func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			target, err := order.ParseStatus(args[1])
			if err != nil {
				return userError(err)
			}
			msg, err := a.orders.UpdateStatus(ctx, args[0], domain.OrderStatus(current), target)
			if err != nil {
				return userError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		}),
	}
	cmd.Flags().StringVar(&current, "current", "", "current status, fetched when omitted")
	return cmd
}

func newCancelCmd(opts *rootOptions) *cobra.Command {
	var current string

	cmd := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a pending order (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			msg, err := a.orders.Cancel(ctx, args[0], domain.OrderStatus(current))
			if err != nil {
				return userError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		}),
	}
	cmd.Flags().StringVar(&current, "current", "", "current status, fetched when omitted")
	return cmd
}

func newProductCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage catalog products (admin)",
	}

	bindForm := func(c *cobra.Command, form *validation.ProductForm, price, stock *string) {
		c.Flags().StringVar(&form.Name, "name", "", "product name")
		c.Flags().StringVar(&form.Description, "description", "", "description")
		c.Flags().StringVar(price, "price", "", "unit price")
		c.Flags().StringVar(stock, "stock", "", "units in stock")
		c.Flags().StringVar(&form.Category, "category", "", "category")
		c.Flags().StringVar(&form.Image, "image", "", "image URL (jpg, jpeg, png, gif, webp)")
	}
	report := func(cmd *cobra.Command, a *app, result backend.ProductResult) error {
		if a.opts.json {
			return writeJSON(cmd.OutOrStdout(), result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	}

	var createForm validation.ProductForm
	var createPrice, createStock string
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			createForm.Price = validation.Text(createPrice)
			createForm.Stock = validation.Text(createStock)
			result, err := a.products.Create(ctx, createForm)
			if err != nil {
				return userError(err)
			}
			return report(cmd, a, result)
		}),
	}
	bindForm(create, &createForm, &createPrice, &createStock)

	var updateForm validation.ProductForm
	var updatePrice, updateStock string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a product",
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			updateForm.Price = validation.Text(updatePrice)
			updateForm.Stock = validation.Text(updateStock)
			result, err := a.products.Update(ctx, args[0], updateForm)
			if err != nil {
				return userError(err)
			}
			return report(cmd, a, result)
		}),
	}
	bindForm(update, &updateForm, &updatePrice, &updateStock)

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a product",
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			msg, err := a.products.Delete(ctx, args[0])
			if err != nil {
				return userError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		}),
	}

	cmd.AddCommand(create, update, remove)
	return cmd
}

func newSalesReportCmd(opts *rootOptions) *cobra.Command {
	var rangeKey string

	cmd := &cobra.Command{
		Use:   "sales-report",
		Short: "Summarise sales (admin)",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			report, err := a.reports.Sales(ctx, rangeKey)
			if err != nil {
				return userError(err)
			}
			if a.opts.json {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printReport(cmd.OutOrStdout(), report, a.cfg.Business.Currency)
			return nil
		}),
	}
	cmd.Flags().StringVar(&rangeKey, "range", service.DefaultRange, "1day, 7days, 30days or 90days")
	return cmd
}

func newLocationCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "location <lat> <lng>",
		Short: "Turn coordinates into a delivery address",
		Args:  cobra.ExactArgs(2),
		RunE: run(opts, func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid latitude %q", args[0])
			}
			lng, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid longitude %q", args[1])
			}

			loc := a.location.ReverseGeocode(ctx, lat, lng)
			if a.opts.json {
				return writeJSON(cmd.OutOrStdout(), loc)
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc.Address)
			return nil
		}),
	}
}

func newSocialCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "social <tiktok|instagram>",
		Short: "Show the business social profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delivery, err := messaging.OpenSocial(cmd.Context(), messaging.NewWriterLauncher(cmd.OutOrStdout()), args[0])
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), delivery)
			}
			return nil
		},
	}
}
