package http

import "html/template"

// pageData feeds the review page template. Bootstrap is the session view
// JSON produced by the server; json.Marshal escapes angle brackets, so it is
// safe to inline in a script block.
type pageData struct {
	Title     string
	Bootstrap template.JS
}

var pageTemplate = template.Must(template.New("review").Parse(reviewPageHTML))

const reviewPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}} - Redline Review</title>
<style>
:root {
    --bg-primary: #1a1a2e;
    --bg-secondary: #16213e;
    --bg-card: #1f2847;
    --text-primary: #eaeaea;
    --text-secondary: #a0a0a0;
    --accent: #4f9cf9;
    --success: #4ade80;
    --danger: #f87171;
    --border: #2d3a5a;
}
* { box-sizing: border-box; margin: 0; padding: 0; }
body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    background: var(--bg-primary);
    color: var(--text-primary);
    line-height: 1.6;
    min-height: 100vh;
}
.container { max-width: 900px; margin: 0 auto; padding: 2rem; }
header {
    display: flex;
    justify-content: space-between;
    align-items: center;
    margin-bottom: 2rem;
    padding-bottom: 1rem;
    border-bottom: 1px solid var(--border);
}
h1 { font-size: 1.5rem; font-weight: 600; }
.summary { font-size: 0.875rem; color: var(--text-secondary); }
.summary .approved { color: var(--success); }
.summary .rejected { color: var(--danger); }
.section-label {
    font-size: 0.8rem;
    text-transform: uppercase;
    letter-spacing: 0.05em;
    color: var(--text-secondary);
    margin: 1.5rem 0 0.5rem;
}
.block {
    background: var(--bg-card);
    border: 1px solid var(--border);
    border-radius: 8px;
    margin-bottom: 1rem;
    overflow: hidden;
}
.block:hover { border-color: var(--accent); }
.block.rejected { border-left: 3px solid var(--danger); }
.block.approved { border-left: 3px solid var(--success); }
.block-header { display: flex; align-items: flex-start; gap: 1rem; padding: 1rem; cursor: pointer; }
input[type="checkbox"] { width: 20px; height: 20px; cursor: pointer; accent-color: var(--success); }
.block-content { flex: 1; }
.block-kind { font-size: 0.7rem; text-transform: uppercase; color: var(--text-secondary); margin-bottom: 0.25rem; }
.block-text { font-size: 0.95rem; overflow-wrap: anywhere; }
.block-text pre {
    background: var(--bg-secondary);
    padding: 0.75rem;
    border-radius: 6px;
    overflow-x: auto;
    font-size: 0.85rem;
}
.block-text code { font-family: 'SF Mono', Monaco, monospace; color: var(--accent); }
.comment-section { padding: 0 1rem 1rem 3.25rem; }
.comment-input {
    width: 100%;
    padding: 0.75rem;
    background: var(--bg-secondary);
    border: 1px solid var(--border);
    border-radius: 6px;
    color: var(--text-primary);
    font-size: 0.875rem;
    resize: vertical;
    min-height: 60px;
}
.comment-input:focus { outline: none; border-color: var(--accent); }
.actions {
    display: flex;
    gap: 1rem;
    justify-content: space-between;
    align-items: center;
    margin-top: 2rem;
    padding-top: 1rem;
    border-top: 1px solid var(--border);
}
.action-group { display: flex; gap: 0.5rem; }
button {
    padding: 0.75rem 1.5rem;
    border: none;
    border-radius: 6px;
    font-size: 0.875rem;
    font-weight: 500;
    cursor: pointer;
}
.btn-secondary { background: var(--bg-secondary); color: var(--text-primary); border: 1px solid var(--border); }
.btn-success { background: var(--success); color: #000; }
.btn-danger { background: transparent; color: var(--danger); border: 1px solid var(--danger); }
.btn-primary { background: var(--accent); color: #fff; }
.keyboard-hint { font-size: 0.75rem; color: var(--text-secondary); }
kbd { background: var(--bg-secondary); padding: 0.2rem 0.4rem; border-radius: 4px; border: 1px solid var(--border); }
.finished { text-align: center; padding: 4rem 0; color: var(--text-secondary); }
</style>
</head>
<body>
<div class="container">
    <header>
        <h1>{{.Title}}</h1>
        <div class="summary">
            <span class="approved" id="approved-count">0</span> approved |
            <span class="rejected" id="rejected-count">0</span> needs revision
        </div>
    </header>
    <main id="blocks-container"></main>
    <div class="actions" id="actions">
        <div class="action-group">
            <button class="btn-success" onclick="setAll(true)">Approve All</button>
            <button class="btn-danger" onclick="setAll(false)">Reject All</button>
        </div>
        <div class="keyboard-hint">
            <kbd>Ctrl</kbd>+<kbd>Enter</kbd> to submit | <kbd>Esc</kbd> to cancel
        </div>
        <div class="action-group">
            <button class="btn-secondary" onclick="cancelReview()">Cancel</button>
            <button class="btn-primary" onclick="submitReview()">Submit Review</button>
        </div>
    </div>
</div>
<script>
const session = {{.Bootstrap}};
const state = session.items.map(it => ({...it}));
const submitURL = '/api/session/' + session.sessionId + '/submit';

function render() {
    const container = document.getElementById('blocks-container');
    container.innerHTML = '';
    let lastSection = null;
    state.forEach((item, index) => {
        if (item.section && item.section !== lastSection) {
            const label = document.createElement('div');
            label.className = 'section-label';
            label.textContent = item.section;
            container.appendChild(label);
        }
        lastSection = item.section || lastSection;

        const block = document.createElement('div');
        block.className = 'block ' + (item.checked ? 'approved' : 'rejected');

        const header = document.createElement('div');
        header.className = 'block-header';
        header.onclick = () => toggle(index);

        const check = document.createElement('input');
        check.type = 'checkbox';
        check.checked = item.checked;
        check.onclick = (e) => { e.stopPropagation(); toggle(index); };

        const content = document.createElement('div');
        content.className = 'block-content';
        const kind = document.createElement('div');
        kind.className = 'block-kind';
        kind.textContent = item.kind + (item.level ? ' h' + item.level : '');
        const text = document.createElement('div');
        text.className = 'block-text';
        if (item.html) {
            text.innerHTML = item.html; // sanitized server-side
        } else {
            text.textContent = item.text;
        }
        content.appendChild(kind);
        content.appendChild(text);
        header.appendChild(check);
        header.appendChild(content);
        block.appendChild(header);

        const commentWrap = document.createElement('div');
        commentWrap.className = 'comment-section';
        const comment = document.createElement('textarea');
        comment.className = 'comment-input';
        comment.placeholder = 'Add a comment (optional)...';
        comment.value = item.comment || '';
        comment.oninput = () => { state[index].comment = comment.value; };
        comment.onclick = (e) => e.stopPropagation();
        commentWrap.appendChild(comment);
        block.appendChild(commentWrap);

        container.appendChild(block);
    });
    updateSummary();
}

function toggle(index) {
    state[index].checked = !state[index].checked;
    render();
}

function setAll(checked) {
    state.forEach(it => { it.checked = checked; });
    render();
}

function updateSummary() {
    const approved = state.filter(it => it.checked).length;
    document.getElementById('approved-count').textContent = approved;
    document.getElementById('rejected-count').textContent = state.length - approved;
}

function finish(message) {
    document.getElementById('blocks-container').innerHTML =
        '<div class="finished">' + message + '</div>';
    document.getElementById('actions').style.display = 'none';
    window.close();
}

async function submitReview() {
    const payload = {
        items: state.map(it => ({id: it.id, checked: it.checked, comment: it.comment || ''}))
    };
    try {
        const resp = await fetch(submitURL, {
            method: 'POST',
            headers: {'Content-Type': 'application/json'},
            body: JSON.stringify(payload)
        });
        if (!resp.ok) {
            const body = await resp.json().catch(() => ({}));
            alert(body.error || 'Failed to submit review.');
            return;
        }
        finish('Review submitted. You can close this tab.');
    } catch (e) {
        alert('Failed to submit review. Please try again.');
    }
}

async function cancelReview() {
    try {
        await fetch(submitURL, {
            method: 'POST',
            headers: {'Content-Type': 'application/json'},
            body: JSON.stringify({status: 'cancelled', items: []})
        });
    } finally {
        finish('Review cancelled.');
    }
}

document.addEventListener('keydown', (e) => {
    if ((e.metaKey || e.ctrlKey) && e.key === 'Enter') {
        e.preventDefault();
        submitReview();
    }
    if (e.key === 'Escape') {
        cancelReview();
    }
});

render();
</script>
</body>
</html>
`
