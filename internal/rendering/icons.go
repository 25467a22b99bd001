package rendering

// Pillar icons are fixed design assets, not content. Pillars past the end of the
// table render without an icon.
var pillarIcons = []string{
	`<svg class="pillar-icon pillar-icon--listening" aria-hidden="true" viewBox="0 0 68.8 68.7" xmlns="http://www.w3.org/2000/svg">
              <path d="M68.5,9.4L59.3.2c-.1-.1-.3-.2-.6-.2H.8c-.2,0-.4,0-.6.2C0,.4,0,.6,0,.8v58c0,.2,0,.4.2.6l9.2,9.2c.1.1.3.2.6.2h58c.2,0,.4,0,.6-.2.1-.1.2-.3.2-.6V10c0-.2,0-.4-.2-.6ZM47.5,19.9h-26.7l-9-9.2h35.7v9.2ZM47.5,21.5v25.8h-26.2v-25.8h26.2ZM21.3,48.8h26.7l9,9.2H21.3v-9.2ZM1.6,1.6h56.4v55.3l-9-9.1V10c0-.2,0-.4-.2-.6-.1-.1-.3-.2-.6-.2H10c-.2,0-.4,0-.6.2-.1.1-.2.3-.2.6v56.1l-7.6-7.6V1.6ZM67.2,67.2H10.8V11.9l9,9.1v37.8c0,.2,0,.4.2.6.1.1.3.2.6.2h38.3c.2,0,.4,0,.6-.2.1-.1.2-.3.2-.6V2.7l7.6,7.6v56.9Z" fill="currentColor"/>
            </svg>`,
	`<svg class="pillar-icon" aria-hidden="true" viewBox="0 0 73.2 68.8" xmlns="http://www.w3.org/2000/svg">
              <path d="M73.2,19.7l-5.6-9.7c-.1-.2-.4-.4-.7-.4h-21.6L40.1.4c-.1-.2-.4-.4-.7-.4H6.2c-.3,0-.5.1-.7.4L0,10.1c-.1.2-.1.5,0,.8l10.8,18.7-5.3,9.3c-.1.2-.1.5,0,.8l16.6,28.8c.1.2.4.4.7.4h11.1c.3,0,.5-.1.7-.4l10.8-18.7h10.7c.3,0,.5-.1.7-.4l16.6-28.8h0c.1-.2.1-.5,0-.8h0ZM65.6,11.2l-15.7,27.2h-20.6l4.7-8h10.9c.3,0,.5-.1.7-.4l5.6-9.7c.1-.2.1-.5,0-.8l-4.8-8.4h19.3ZM18.2,39.2l10-17.3,4.6,7.8-5.4,9.1c-.1.2-.1.5,0,.8l5.7,9.7c.1.2.4.4.7.4h9.8l-9.7,16.8-15.7-27.2ZM33.4,11.2l10.2,17.7h-9.5l-5.2-8.9c-.1-.2-.4-.4-.7-.4h-11.1c-.3,0-.5.1-.7.4l-4.6,8L2,11.2h31.4ZM17.4,21.1h9.3l-10,17.3H7.5l10-17.3ZM17.3,39.2h0,0s0,0,0,0ZM34.1,48.1l-4.8-8.1h20.6l4.7,8.1h-20.5ZM49.6,20l-4.7,8.1-10.2-17.7,4.7-8.1,10.2,17.7ZM6.7,1.6h31.4l-4.7,8.1H2L6.7,1.6ZM7.5,40h9.3l15.7,27.2h-9.3l-15.7-27.2ZM56,47.3l-4.7-8.1,15.7-27.2,4.7,8.1-15.7,27.2Z" fill="currentColor"/>
            </svg>`,
}

// PillarIcon returns the inline SVG for the pillar at index i, or "".
func PillarIcon(i int) string {
	if i < 0 || i >= len(pillarIcons) {
		return ""
	}
	return pillarIcons[i]
}
