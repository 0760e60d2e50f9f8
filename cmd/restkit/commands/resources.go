package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "get TYPE ID",
		Short: "Fetch a single resource",
		Long:  "Fetch one element of a collection by its id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := createSite()
			if err != nil {
				return err
			}

			opts, err := parseParams(params)
			if err != nil {
				return err
			}

			resource, err := site.Type(args[0]).Find(context.Background(), args[1], opts)
			if err != nil {
				return fmt.Errorf("fetching %s %s: %w", args[0], args[1], err)
			}

			return renderResource(resource)
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "request parameter (key=value, repeatable)")

	return cmd
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "list TYPE",
		Short: "List a collection",
		Long:  "Fetch all elements of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := createSite()
			if err != nil {
				return err
			}

			opts, err := parseParams(params)
			if err != nil {
				return err
			}

			resources, err := site.Type(args[0]).FindAll(context.Background(), opts)
			if err != nil {
				return fmt.Errorf("listing %s: %w", args[0], err)
			}

			return renderResources(resources)
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "request parameter (key=value, repeatable)")

	return cmd
}

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "create TYPE ATTR=VALUE...",
		Short: "Create a resource",
		Long:  "Create a new element in a collection from key=value attributes",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := createSite()
			if err != nil {
				return err
			}

			attrs, err := parseAttrs(args[1:])
			if err != nil {
				return err
			}

			opts, err := parseParams(params)
			if err != nil {
				return err
			}

			resource, err := site.Type(args[0]).Create(context.Background(), attrs, opts)
			if err != nil {
				return fmt.Errorf("creating %s: %w", args[0], err)
			}

			fmt.Printf("Created %s %s\n", args[0], resource.ID())

			return renderResource(resource)
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "request parameter (key=value, repeatable)")

	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "update TYPE ID ATTR=VALUE...",
		Short: "Update a resource",
		Long:  "Fetch an element, apply key=value attributes, and save it back",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := createSite()
			if err != nil {
				return err
			}

			attrs, err := parseAttrs(args[2:])
			if err != nil {
				return err
			}

			opts, err := parseParams(params)
			if err != nil {
				return err
			}

			ctx := context.Background()

			resource, err := site.Type(args[0]).Find(ctx, args[1], opts)
			if err != nil {
				return fmt.Errorf("fetching %s %s: %w", args[0], args[1], err)
			}

			for name, value := range attrs {
				resource.SetAttr(name, value)
			}

			if err := resource.Save(ctx); err != nil {
				return fmt.Errorf("saving %s %s: %w", args[0], args[1], err)
			}

			fmt.Printf("Updated %s %s\n", args[0], args[1])

			return renderResource(resource)
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "request parameter (key=value, repeatable)")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "delete TYPE ID",
		Short: "Delete a resource",
		Long:  "Delete one element of a collection by its id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := createSite()
			if err != nil {
				return err
			}

			opts, err := parseParams(params)
			if err != nil {
				return err
			}

			if err := site.Type(args[0]).Delete(context.Background(), args[1], opts); err != nil {
				return fmt.Errorf("deleting %s %s: %w", args[0], args[1], err)
			}

			fmt.Printf("Deleted %s %s\n", args[0], args[1])

			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "request parameter (key=value, repeatable)")

	return cmd
}

// NewExistsCommand creates the exists command.
func NewExistsCommand() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "exists TYPE ID",
		Short: "Check whether a resource exists",
		Long:  "Check for an element with a HEAD request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := createSite()
			if err != nil {
				return err
			}

			opts, err := parseParams(params)
			if err != nil {
				return err
			}

			found, err := site.Type(args[0]).Exists(context.Background(), args[1], opts)
			if err != nil {
				return fmt.Errorf("checking %s %s: %w", args[0], args[1], err)
			}

			if found {
				fmt.Printf("%s %s exists\n", args[0], args[1])
			} else {
				fmt.Printf("%s %s does not exist\n", args[0], args[1])
			}

			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "request parameter (key=value, repeatable)")

	return cmd
}
