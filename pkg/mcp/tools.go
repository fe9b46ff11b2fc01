package mcp

import "github.com/mark3labs/mcp-go/mcp"

func generateComponentTool() mcp.Tool {
	return mcp.NewTool("generate_component",
		mcp.WithDescription("Validate a component specification and generate its JSX. "+
			"Returns the code, the import lines and a per-stage validation report. "+
			"A failed validation is reported in the result, not as a tool error."),
		mcp.WithString("spec",
			mcp.Required(),
			mcp.Description(`Specification as a JSON document, e.g. {"component": {"id": "button"}, "props": {"size": {"value": "sm", "source": "literal"}}}. `+
				"Props are emitted in document order."),
		),
		mcp.WithBoolean("verify",
			mcp.Description("Re-parse the generated code and report syntax or import problems"),
		),
	)
}

func validateSpecTool() mcp.Tool {
	return mcp.NewTool("validate_spec",
		mcp.WithDescription("Run every validation stage on a specification without returning code. "+
			"Use it to check a spec before generating."),
		mcp.WithString("spec",
			mcp.Required(),
			mcp.Description("Specification as a JSON document"),
		),
	)
}

func listComponentsTool() mcp.Tool {
	return mcp.NewTool("list_components",
		mcp.WithDescription("List the component ids the registry supports, with their export name and required props"),
	)
}

func getComponentAPITool() mcp.Tool {
	return mcp.NewTool("get_component_api",
		mcp.WithDescription("Full prop metadata and children policy for one component"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Component id, e.g. button"),
		),
	)
}

func getTokensTool() mcp.Tool {
	return mcp.NewTool("get_tokens",
		mcp.WithDescription("Design token families with their valid shades"),
		mcp.WithString("family",
			mcp.Description("Return a single family by name"),
		),
		mcp.WithString("category",
			mcp.Description("Filter families by category"),
			mcp.Enum("color", "spacing"),
		),
	)
}
