package clean

// Completions collected from real model output, one per situation the
// cleaner has to handle.
var (
	mermaidWithThinking = "<thinking>Need to create a workflow</thinking>\n```mermaid\nflowchart TD\n    A --> B\n```"

	pythonFenced = "```python\nprint(\"hello world\")\n```"

	sqlWithLeadIn = "Here's the SQL:\n```sql\nselect count(*) from t_customers;\n```\n"

	pythonThenJavaScript = "```python\ndef hello():\n    return \"world\"\n```\n\n```javascript\nconsole.log(\"hello\");\n```"

	javascriptFenced = "\n```javascript\nconsole.log(\"hello\");\n```"

	thinkingMultiline = "<thinking>\nLet me create a flowchart\n</thinking>\n```mermaid\nflowchart TD\n    Start --> End\n```"

	preCodeWrapped = "<pre><code>\nfunction test() {\n    return true;\n}\n</code></pre>"

	pythonLeadInAndResult = "Here is the code:\n```python\nx = 1 + 1\n```\nThe result is 2."

	sequenceDiagram = "```mermaid\nsequenceDiagram\n    participant A as Alice\n    participant B as Bob\n    A->>B: Hello Bob!\n    B->>A: Hi Alice!\n```"

	allAuxTags = "<thinking>Planning the approach</thinking>\n<reasoning>This needs a state diagram</reasoning>\n<analysis>User wants authentication flow</analysis>\n```mermaid\nstateDiagram\n    [*] --> Login\n    Login --> Dashboard\n```"

	htmlDocument = "<!DOCTYPE html>\n<html>\n<head><title>Test</title></head>\n<body>Hello World</body>\n</html>"

	jsonFenced = "```json\n{\n  \"name\": \"test\",\n  \"version\": \"1.0\",\n  \"dependencies\": []\n}\n```"

	yamlFenced = "```yaml\nname: deploy-workflow\non:\n  push:\n    branches: [main]\njobs:\n  build:\n    runs-on: ubuntu-latest\n```"

	cssFenced = "```css\n.container {\n    display: flex;\n    justify-content: center;\n    align-items: center;\n}\n\n#main-header {\n    background-color: #333;\n    color: white;\n}\n```"

	sqlComplex = "```sql\nSELECT u.name, COUNT(o.id) as order_count\nFROM users u\nLEFT JOIN orders o ON u.id = o.user_id\nWHERE u.created_at >= '2024-01-01'\nGROUP BY u.id, u.name\nORDER BY order_count DESC;\n```"

	pythonWithComments = "```python\n# This is a sample function\ndef calculate_total(items):\n    \"\"\"Calculate total price of items.\"\"\"\n    total = 0  # Initialize counter\n    for item in items:\n        total += item.price  # Add item price\n    return total\n```"

	mermaidWithReasoning = "<reasoning>\nThe user wants to create a deployment pipeline.\nI should create a flowchart showing the stages.\n</reasoning>\n\nHere's the deployment workflow:\n\n```mermaid\nflowchart LR\n    A[Code Commit] --> B[Build]\n    B --> C[Test]\n    C --> D{Tests Pass?}\n    D -->|Yes| E[Deploy]\n    D -->|No| F[Fix Issues]\n    F --> B\n```\n\nThis shows the continuous integration process."

	mermaidNoFence = "I need a simple flowchart:\n\nflowchart TD\n    Start --> Process\n    Process --> End"

	javascriptModern = "```javascript\nconst processData = async (data) => {\n    const result = await fetch('/api/process', {\n        method: 'POST',\n        body: JSON.stringify(data)\n    });\n    return result.json();\n};\n\n// Arrow function example\nconst multiply = (a, b) => a * b;\n```"

	markdownFenced = "```markdown\n# My Project\n\nThis is a **test** document with:\n\n- List item 1\n- List item 2\n\n## Code Example\n\n`inline code` and code blocks.\n```"

	htmlWithScript = "```html\n<script>\nfunction handleClick() {\n    console.log(\"Button clicked!\");\n    document.getElementById(\"demo\").innerHTML = \"Hello!\";\n}\n</script>\n<button onclick=\"handleClick()\">Click me</button>\n<p id=\"demo\">Original text</p>\n```"

	plainText = "This is just plain text without any code fences or special markers.\nIt should trigger the unknown content warning and use basic cleaning.\nNo programming languages or mermaid keywords here."

	ganttFenced = "```mermaid\ngantt\n    title Project Timeline\n    dateFormat YYYY-MM-DD\n    section Development\n    Requirements : done, req, 2024-01-01, 2024-01-15\n    Design      : active, des, 2024-01-16, 2024-02-01\n    Coding      : cod, after des, 30d\n```"

	fenceInsideThinking = "<thinking>Incomplete tag\n```python\nprint(\"test\")\n```\nSome text after</thinking>"

	confusingPython = "Here's some code that might confuse the detector:\n\n```python\n# This looks like python\ndef function():\n    console.log(\"but has javascript inside\")\n    SELECT * FROM users;  # and SQL too!\n```"

	pythonClassWithTrailer = "This is a comprehensive example:\n\n```python\nclass DataProcessor:\n    \"\"\"A class for processing data.\"\"\"\n    \n    def __init__(self, config):\n        self.config = config\n        self.data = []\n    \n    def load_data(self, filename):\n        \"\"\"Load data from file.\"\"\"\n        with open(filename, 'r') as f:\n            self.data = f.readlines()\n    \n    def process(self):\n        \"\"\"Process the loaded data.\"\"\"\n        processed = []\n        for line in self.data:\n            cleaned = line.strip().lower()\n            processed.append(cleaned)\n        return processed\n```\n\nThis class provides a simple interface for data processing tasks.\nThe result will be a list of cleaned strings."

	journeyFenced = "```mermaid\njourney\n    title User Shopping Experience\n    section Browse\n      Go to website: 5: Me\n      Search products: 3: Me\n      View details: 4: Me\n    section Purchase\n      Add to cart: 5: Me\n      Checkout: 2: Me\n      Payment: 1: Me, Bank\n```"

	classDiagramFenced = "```mermaid\nclassDiagram\n    class Animal {\n        +String name\n        +int age\n        +makeSound()\n    }\n    class Dog {\n        +String breed\n        +bark()\n    }\n    Animal <|-- Dog\n```"

	gitgraphFenced = "```mermaid\ngitgraph\n    commit\n    branch develop\n    checkout develop\n    commit\n    commit\n    checkout main\n    merge develop\n    commit\n```"

	javascriptWithPythonInside = "```javascript\n// This should be detected as JavaScript\nfunction processData() {\n    const data = fetch('/api/data');\n    return data.json();\n}\n\n// But contains python-like syntax\ndef helper():\n    pass\n```"

	stateDiagramExplained = "Let me explain the authentication flow:\n\n```mermaid\nstateDiagram-v2\n    [*] --> Unauthenticated\n    Unauthenticated --> Authenticating: login()\n    Authenticating --> Authenticated: success\n    Authenticating --> Unauthenticated: failure\n    Authenticated --> Unauthenticated: logout()\n    \n    state Authenticated {\n        [*] --> Active\n        Active --> Idle: timeout\n        Idle --> Active: activity\n    }\n```\n\nThis diagram shows how users transition between authentication states.\nThe nested state shows activity tracking within the authenticated state."

	pythonManyCommentStyles = "```python\n#!/usr/bin/env python3\n\"\"\"\nModule docstring\nMulti-line documentation\n\"\"\"\n\n# Single line comment\ndef process(data):\n    # Another comment\n    result = []  # Inline comment\n    \"\"\"\n    Multi-line string that looks like comment\n    \"\"\"\n    return result\n```"

	allAuxTagsMultiline = "<analysis>\nThe user needs a complex workflow that handles multiple conditions.\nThis requires careful state management and error handling.\n</analysis>\n\n<thinking>\nI should create a comprehensive flowchart that shows:\n1. Input validation\n2. Processing steps  \n3. Error handling\n4. Output generation\n</thinking>\n\n<reasoning>\nA flowchart is the best choice because it clearly shows:\n- Decision points\n- Alternative paths\n- Error conditions\n- Final outcomes\n</reasoning>\n\n```mermaid\nflowchart TD\n    A[Input Data] --> B{Valid?}\n    B -->|No| C[Show Error]\n    B -->|Yes| D[Process Data]\n    D --> E{Success?}\n    E -->|No| F[Log Error]\n    E -->|Yes| G[Return Result]\n    C --> H[End]\n    F --> H\n    G --> H\n```"

	sequenceNoFence = "Creating a user registration flowchart:\n\nsequenceDiagram\n    participant U as User\n    participant F as Frontend\n    participant B as Backend\n    participant D as Database\n    \n    U->>F: Enter registration details\n    F->>B: POST /api/register\n    B->>D: Check if user exists\n    D-->>B: User status\n    alt User doesn't exist\n        B->>D: Create user\n        D-->>B: User created\n        B-->>F: Success response\n        F-->>U: Registration successful\n    else User exists\n        B-->>F: Error response\n        F-->>U: User already exists\n    end"
)

// corpus lists every non-empty sample for property-style checks.
var corpus = map[string]string{
	"mermaidWithThinking":        mermaidWithThinking,
	"pythonFenced":               pythonFenced,
	"sqlWithLeadIn":              sqlWithLeadIn,
	"pythonThenJavaScript":       pythonThenJavaScript,
	"javascriptFenced":           javascriptFenced,
	"thinkingMultiline":          thinkingMultiline,
	"preCodeWrapped":             preCodeWrapped,
	"pythonLeadInAndResult":      pythonLeadInAndResult,
	"sequenceDiagram":            sequenceDiagram,
	"allAuxTags":                 allAuxTags,
	"htmlDocument":               htmlDocument,
	"jsonFenced":                 jsonFenced,
	"yamlFenced":                 yamlFenced,
	"cssFenced":                  cssFenced,
	"sqlComplex":                 sqlComplex,
	"pythonWithComments":         pythonWithComments,
	"mermaidWithReasoning":       mermaidWithReasoning,
	"mermaidNoFence":             mermaidNoFence,
	"javascriptModern":           javascriptModern,
	"markdownFenced":             markdownFenced,
	"htmlWithScript":             htmlWithScript,
	"plainText":                  plainText,
	"ganttFenced":                ganttFenced,
	"fenceInsideThinking":        fenceInsideThinking,
	"confusingPython":            confusingPython,
	"pythonClassWithTrailer":     pythonClassWithTrailer,
	"journeyFenced":              journeyFenced,
	"classDiagramFenced":         classDiagramFenced,
	"gitgraphFenced":             gitgraphFenced,
	"javascriptWithPythonInside": javascriptWithPythonInside,
	"stateDiagramExplained":      stateDiagramExplained,
	"pythonManyCommentStyles":    pythonManyCommentStyles,
	"allAuxTagsMultiline":        allAuxTagsMultiline,
	"sequenceNoFence":            sequenceNoFence,
}
