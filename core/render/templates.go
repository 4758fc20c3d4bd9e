package render

import "html/template"

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

var leafTemplate = template.Must(template.New("leaf").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Entry.Title}}</title>
</head>
<body data-catalog-kind="{{.Entry.Kind}}" data-item-id="{{.Entry.ID}}">
<header>
<a href="../index.html">Catalog</a>
<h1>{{.Entry.Title}}{{if .Entry.Year}} ({{.Entry.Year}}){{end}}</h1>
<p class="rating">Rating: {{.Entry.Rating}}</p>
</header>
<img class="poster" src="{{.Entry.PosterRef}}" alt="{{.Entry.Title}}">
{{- if .Entry.BackdropRef}}
<img class="backdrop" src="{{.Entry.BackdropRef}}" alt="">
{{- end}}
<iframe src="{{.EmbedURL}}" allowfullscreen></iframe>
</body>
</html>
`))

var containerTemplate = template.Must(template.New("container").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Entry.Title}}</title>
</head>
<body data-catalog-kind="{{.Entry.Kind}}" data-item-id="{{.Entry.ID}}">
<header>
<a href="../index.html">Catalog</a>
<h1>{{.Entry.Title}}{{if .Entry.Year}} ({{.Entry.Year}}){{end}}</h1>
<p class="rating">Rating: {{.Entry.Rating}}</p>
</header>
<img class="poster" src="{{.Entry.PosterRef}}" alt="{{.Entry.Title}}">
<ol class="children" data-catalog-container="{{.Entry.ID}}">
{{- range $i, $c := .Children}}
<li data-child-id="{{$c.ID}}"><a href="{{$c.URL}}">{{inc $i}}. {{$c.Name}}</a></li>
{{- else}}
<li class="empty">No items</li>
{{- end}}
</ol>
</body>
</html>
`))

var indexTemplate = template.Must(template.New("index").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Catalog</title>
</head>
<body>
<header>
<h1>Catalog</h1>
<p class="counts">{{range $i, $c := .Counts}}{{if $i}} · {{end}}{{$c.Label}}: {{$c.Count}}{{end}}</p>
</header>
<ul class="entries">
{{- range .Entries}}
<li data-kind="{{.Kind}}" data-item-id="{{.ID}}"><a href="{{.ArtifactPath}}"><img src="{{.PosterRef}}" alt=""> {{.Title}}{{if .Year}} ({{.Year}}){{end}}</a> <span class="kind">{{.Kind.Label}}</span> <span class="rating">{{.Rating}}</span></li>
{{- else}}
<li class="empty">No items</li>
{{- end}}
</ul>
</body>
</html>
`))
