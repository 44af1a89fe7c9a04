package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Client and pet intake",
}

var clientSearch string

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients, optionally matching --search",
	Args:  cobra.NoArgs,
	RunE:  runClientList,
}

var clientShowCmd = &cobra.Command{
	Use:   "show <client-id>",
	Short: "Show a client and their pets",
	Args:  cobra.ExactArgs(1),
	RunE:  runClientShow,
}

var clientAdd struct {
	first, last, phone, email string
	street, ext, colonia, cp  string
	pets                      []string
}

var clientAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a client with their pets",
	Long: `Register a client. Each --pet is "name:species" or "name:species:breed",
for example --pet "Firulais:dog:mestizo". Species: dog, cat, bird, rabbit,
reptile, other.`,
	Args: cobra.NoArgs,
	RunE: runClientAdd,
}

func init() {
	clientListCmd.Flags().StringVarP(&clientSearch, "search", "s", "", "match name, phone or email")

	f := clientAddCmd.Flags()
	f.StringVar(&clientAdd.first, "first-name", "", "first name (required)")
	f.StringVar(&clientAdd.last, "last-name", "", "last name")
	f.StringVar(&clientAdd.phone, "phone", "", "ten-digit phone (required)")
	f.StringVar(&clientAdd.email, "email", "", "email")
	f.StringVar(&clientAdd.street, "street", "", "street")
	f.StringVar(&clientAdd.ext, "ext", "", "exterior number")
	f.StringVar(&clientAdd.colonia, "colonia", "", "colonia")
	f.StringVar(&clientAdd.cp, "cp", "", "postal code")
	f.StringArrayVar(&clientAdd.pets, "pet", nil, "pet as name:species[:breed], repeatable")
	_ = clientAddCmd.MarkFlagRequired("first-name")
	_ = clientAddCmd.MarkFlagRequired("phone")

	clientCmd.AddCommand(clientListCmd, clientShowCmd, clientAddCmd)
	rootCmd.AddCommand(clientCmd)
}

func runClientList(cmd *cobra.Command, _ []string) error {
	if svc.Clients == nil {
		return errNotConfigured("client")
	}
	tenant, err := currentTenant(cmd)
	if err != nil {
		return err
	}

	var clients []domain.Client
	if clientSearch != "" {
		clients, err = svc.Clients.Search(cmd.Context(), tenant.ID, clientSearch)
	} else {
		clients, err = svc.Clients.List(cmd.Context(), tenant.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to list clients: %w", err)
	}
	if jsonFlag {
		return printJSON(cmd, clients)
	}

	rows := make([][]string, 0, len(clients))
	for i := range clients {
		c := &clients[i]
		rows = append(rows, []string{c.ID, c.FullName(), c.Phone, c.Email, c.Address.Colonia})
	}
	printTable(cmd, "No clients found.", []string{"ID", "NAME", "PHONE", "EMAIL", "COLONIA"}, rows)
	return nil
}

func runClientShow(cmd *cobra.Command, args []string) error {
	if svc.Clients == nil {
		return errNotConfigured("client")
	}
	tenant, err := currentTenant(cmd)
	if err != nil {
		return err
	}
	client, err := svc.Clients.Get(cmd.Context(), tenant.ID, args[0])
	if err != nil {
		return fmt.Errorf("client %q: %w", args[0], err)
	}
	pets, err := svc.Clients.ListPets(cmd.Context(), tenant.ID, client.ID)
	if err != nil {
		return fmt.Errorf("failed to list pets: %w", err)
	}
	if jsonFlag {
		return printJSON(cmd, struct {
			Client domain.Client
			Pets   []domain.Pet
		}{*client, pets})
	}

	cmd.Printf("%s (%s)\n", client.FullName(), client.ID)
	cmd.Printf("  Phone:   %s\n", client.Phone)
	if client.Email != "" {
		cmd.Printf("  Email:   %s\n", client.Email)
	}
	if line := client.Address.Line(); line != "" {
		cmd.Printf("  Address: %s\n", line)
	}
	cmd.Println()
	rows := make([][]string, 0, len(pets))
	for i := range pets {
		p := &pets[i]
		rows = append(rows, []string{p.ID, p.Name, string(p.Species), p.Breed})
	}
	printTable(cmd, "No pets registered.", []string{"ID", "PET", "SPECIES", "BREED"}, rows)
	return nil
}

func runClientAdd(cmd *cobra.Command, _ []string) error {
	if svc.Clients == nil {
		return errNotConfigured("client")
	}
	tenant, err := currentTenant(cmd)
	if err != nil {
		return err
	}
	pets, err := parsePets(clientAdd.pets)
	if err != nil {
		return err
	}

	client := domain.Client{
		TenantID:  tenant.ID,
		FirstName: clientAdd.first,
		LastName:  clientAdd.last,
		Phone:     clientAdd.phone,
		Email:     clientAdd.email,
		Address: domain.Address{
			Street:     clientAdd.street,
			ExtNumber:  clientAdd.ext,
			Colonia:    clientAdd.colonia,
			PostalCode: clientAdd.cp,
		},
	}
	created, createdPets, err := svc.Clients.Intake(cmd.Context(), client, pets)
	if err != nil {
		return fmt.Errorf("failed to register client: %w", err)
	}

	cmd.Printf("Registered %s (%s)\n", created.FullName(), created.ID)
	for i := range createdPets {
		cmd.Printf("  pet %s (%s)\n", createdPets[i].Name, createdPets[i].ID)
	}
	return nil
}

// parsePets parses name:species[:breed] values.
func parsePets(values []string) ([]domain.Pet, error) {
	pets := make([]domain.Pet, 0, len(values))
	for _, v := range values {
		parts := strings.SplitN(v, ":", 3)
		if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("pet %q: expected name:species[:breed]", v)
		}
		pet := domain.Pet{
			Name:    strings.TrimSpace(parts[0]),
			Species: domain.Species(strings.ToLower(strings.TrimSpace(parts[1]))),
		}
		if len(parts) == 3 {
			pet.Breed = strings.TrimSpace(parts[2])
		}
		pets = append(pets, pet)
	}
	return pets, nil
}
