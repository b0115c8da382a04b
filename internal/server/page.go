package server

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

const pageTitle = "Review Classification"

// The whole surface is one page: a text area, a trigger, and two output
// lines. The page posts to the JSON API and prints the server-formatted
// values verbatim.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: sans-serif; max-width: 640px; margin: 3rem auto; padding: 0 1rem; }
  textarea { width: 100%; min-height: 8rem; font: inherit; padding: 0.5rem; box-sizing: border-box; }
  button { margin-top: 0.75rem; padding: 0.5rem 1.5rem; font: inherit; cursor: pointer; }
  #result { margin-top: 1.5rem; }
  #error { margin-top: 1.5rem; color: #b00020; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<label for="review">Enter Your Review Here</label>
<textarea id="review"></textarea>
<br>
<button id="predict">Predict</button>
<div id="result" hidden>
  <h2>Prediction Result</h2>
  <p><strong>Sentiment:</strong> <span id="label"></span></p>
  <p><strong>Confidence Score:</strong> <span id="score"></span></p>
</div>
<div id="error" hidden></div>
<script>
document.getElementById("predict").addEventListener("click", async () => {
  const result = document.getElementById("result");
  const errBox = document.getElementById("error");
  result.hidden = true;
  errBox.hidden = true;
  try {
    const resp = await fetch("/api/v1/predict", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({text: document.getElementById("review").value}),
    });
    const body = await resp.json();
    if (!body.success) {
      errBox.textContent = body.error.message;
      errBox.hidden = false;
      return;
    }
    document.getElementById("label").textContent = body.data.label;
    document.getElementById("score").textContent = body.data.score_display;
    result.hidden = false;
  } catch (err) {
    errBox.textContent = String(err);
    errBox.hidden = false;
  }
});
</script>
</body>
</html>
`

func pageHTMLTemplate() *template.Template {
	return template.Must(template.New("index").Parse(pageTemplate))
}

// Page handles GET /
func Page(c *gin.Context) {
	c.HTML(http.StatusOK, "index", gin.H{"Title": pageTitle})
}
