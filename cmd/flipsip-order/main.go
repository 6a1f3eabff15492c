// flipsip-order places a FlipSip order from the command line.
//
// It signs in with a session token, prefills the customer's name, email and
// phone from their account, stores the order and prints the WhatsApp link
// that hands the order to the store. Every flag can also be set through a
// FLIPSIP_ environment variable, e.g. FLIPSIP_TOKEN or FLIPSIP_GIFT_MESSAGE.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"flipsip/internal/checkout"
	"flipsip/internal/models"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flagSet := pflag.NewFlagSet("flipsip-order", pflag.ContinueOnError)
	flagSet.String("server", "http://localhost:8080", "storefront base URL")
	flagSet.String("token", "", "session token")
	flagSet.Duration("timeout", 0, "per-request timeout (default: 15s)")

	flagSet.String("name", "", "full name (default: account name)")
	flagSet.String("email", "", "email (default: account email)")
	flagSet.String("phone", "", "phone (default: account phone); a new number is saved to the account")
	flagSet.String("alt-phone", "", "alternate phone")
	flagSet.String("address1", "", "address line 1")
	flagSet.String("address2", "", "address line 2")
	flagSet.String("landmark", "", "landmark")
	flagSet.String("city", "", "city")
	flagSet.String("state", "", "state")
	flagSet.String("pincode", "", "pincode")
	flagSet.String("country", "India", "country")
	flagSet.String("size", string(models.Size1L), "bottle size: 1L, 750ml or 500ml")
	flagSet.Int("quantity", 1, "number of bottles")
	flagSet.String("delivery-time", "", "preferred delivery time")
	flagSet.String("instructions", "", "special instructions")
	flagSet.String("gift-message", "", "gift message")
	flagSet.String("promo-code", "", "promo code")
	flagSet.String("personalize", "", "personalization text")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	v := viper.New()
	v.SetDefault("timeout", "15s")
	v.SetEnvPrefix("FLIPSIP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flagSet); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	if v.GetString("token") == "" {
		return fmt.Errorf("a session token is required (--token or FLIPSIP_TOKEN)")
	}

	ctx := context.Background()
	client := checkout.NewClient(v.GetString("server"), v.GetString("token"), v.GetDuration("timeout"))

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}
	if user == nil {
		return fmt.Errorf("session token was not accepted")
	}

	knownPhone := ""
	if user.Phone != nil {
		knownPhone = *user.Phone
	}
	form := checkout.NewForm(user, v.GetString("country"))
	fillForm(form, v)

	if !form.Valid() {
		return fmt.Errorf("missing required fields: %s", strings.Join(missingFields(form), ", "))
	}

	wf := checkout.NewWorkflow(client, client, client, form, knownPhone)
	wf.SyncPhone(ctx)

	result, err := wf.Submit(ctx)
	if err != nil {
		var failed *checkout.FailedError
		if errors.As(err, &failed) {
			if result != nil && result.Order != nil {
				fmt.Fprintf(os.Stderr, "order %s was saved; the store was not notified\n", result.Order.ID)
			}
			return errors.New(failed.Message)
		}
		return err
	}

	fmt.Printf("Order %s placed.\n", result.Order.ID)
	fmt.Println("Open this link to send it to the store:")
	fmt.Println(result.RedirectURL)
	for _, link := range result.Links[1:] {
		fmt.Println(link)
	}
	return nil
}

// fillForm applies explicitly set values over the account prefill.
func fillForm(form *checkout.Form, v *viper.Viper) {
	override := func(dst *string, key string) {
		if s := v.GetString(key); s != "" {
			*dst = s
		}
	}
	override(&form.FullName, "name")
	override(&form.Email, "email")
	override(&form.Phone, "phone")
	if size := v.GetString("size"); size != "" {
		form.Size = models.Size(size)
	}

	form.AltPhone = v.GetString("alt-phone")
	form.Address1 = v.GetString("address1")
	form.Address2 = v.GetString("address2")
	form.Landmark = v.GetString("landmark")
	form.City = v.GetString("city")
	form.State = v.GetString("state")
	form.Pincode = v.GetString("pincode")
	form.Quantity = models.Quantity(v.GetInt("quantity"))
	form.DeliveryTime = v.GetString("delivery-time")
	form.SpecialInstructions = v.GetString("instructions")
	form.GiftMessage = v.GetString("gift-message")
	form.PromoCode = v.GetString("promo-code")
	form.Personalize = v.GetString("personalize")
}

func missingFields(form *checkout.Form) []string {
	var missing []string
	check := func(value, flag string) {
		if value == "" {
			missing = append(missing, "--"+flag)
		}
	}
	check(form.FullName, "name")
	check(form.Email, "email")
	check(form.Phone, "phone")
	check(form.Address1, "address1")
	check(form.City, "city")
	check(form.State, "state")
	check(form.Pincode, "pincode")
	check(string(form.Size), "size")
	if form.Quantity == 0 {
		missing = append(missing, "--quantity")
	}
	return missing
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `flipsip-order places a FlipSip order and prints the WhatsApp link for the store.

Usage: flipsip-order --token <session> --address1 <line> --city <city> --state <state> --pincode <pin> [flags]

Flags:
%s`, flagSet.FlagUsages())
}
